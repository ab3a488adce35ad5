package models

// Discount types understood by the scorer. Anything else scores zero.
const (
	DiscountPercentage   = "percentage"
	DiscountFixed        = "fixed"
	DiscountFreeShipping = "free_shipping"
	DiscountBOGO         = "bogo"
)

// Coupon is a discount code record as delivered by a coupon source.
// Timestamps are epoch milliseconds.
type Coupon struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	DiscountType    string   `json:"discount_type"`
	DiscountValue   float64  `json:"discount_value"`
	SuccessRate     float64  `json:"success_rate"`
	MinimumPurchase *float64 `json:"minimum_purchase,omitempty"`
	LastVerifiedTS  int64    `json:"last_verified_ts"`
	ExpiresAt       *int64   `json:"expires_at,omitempty"`
}

// RankedCoupon is a Coupon annotated by the ranker. Confidence is for display
// only and never takes part in ordering.
type RankedCoupon struct {
	Coupon
	Score            float64 `json:"score"`
	Confidence       float64 `json:"confidence"`
	PotentialSavings float64 `json:"potential_savings"`
}

// CouponKind discriminates the two coupon variants.
type CouponKind string

const (
	KindCoupon CouponKind = "coupon"
	KindRanked CouponKind = "ranked"
)

// CouponView is implemented by Coupon and RankedCoupon.
type CouponView interface {
	Kind() CouponKind
	Base() Coupon
}

func (c Coupon) Kind() CouponKind { return KindCoupon }
func (c Coupon) Base() Coupon     { return c }

func (r RankedCoupon) Kind() CouponKind { return KindRanked }

// TaggedCoupon is the wire form of a CouponView.
type TaggedCoupon struct {
	Kind CouponKind `json:"kind"`
	Coupon
	Score      *float64 `json:"score,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Tag converts a view into its discriminated wire form.
func Tag(v CouponView) TaggedCoupon {
	t := TaggedCoupon{Kind: v.Kind(), Coupon: v.Base()}
	if r, ok := v.(RankedCoupon); ok {
		score, confidence := r.Score, r.Confidence
		t.Score = &score
		t.Confidence = &confidence
	}
	return t
}

// Float64Ptr and Int64Ptr help build optional coupon fields.
func Float64Ptr(v float64) *float64 { return &v }
func Int64Ptr(v int64) *int64       { return &v }
