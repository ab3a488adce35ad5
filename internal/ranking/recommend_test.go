package ranking

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

func ofType(recs []models.AIRecommendation, kind string) []models.AIRecommendation {
	var out []models.AIRecommendation
	for _, r := range recs {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	return out
}

func newTestRecommender() *Recommender {
	return NewRecommender(newTestScorer(true))
}

func withMinimum(c models.Coupon, min float64) models.Coupon {
	c.MinimumPurchase = models.Float64Ptr(min)
	return c
}

func TestRecommend_Threshold(t *testing.T) {
	t.Parallel()

	total := 80.0
	coupons := []models.Coupon{
		withMinimum(coupon("MEGA30", models.DiscountPercentage, 30, 0.6), 100),
		withMinimum(coupon("NEAR", models.DiscountFixed, 5, 0.6), 85),
		withMinimum(coupon("FAR", models.DiscountPercentage, 10, 0.6), 200),
	}

	got := ofType(newTestRecommender().Recommend(coupons, &total), models.RecommendThreshold)
	if len(got) != 2 {
		t.Fatalf("threshold recs = %d; want 2", len(got))
	}
	if got[0].RelatedCoupons[0] != "MEGA30" || got[0].Urgency != models.UrgencyLow {
		t.Errorf("got[0] = %+v; want MEGA30/low", got[0])
	}
	if !strings.Contains(got[0].Message, "$20.00") {
		t.Errorf("message %q does not mention the $20.00 gap", got[0].Message)
	}
	if got[1].RelatedCoupons[0] != "NEAR" || got[1].Urgency != models.UrgencyMedium {
		t.Errorf("got[1] = %+v; want NEAR/medium", got[1])
	}
}

func TestRecommend_Stacking(t *testing.T) {
	t.Parallel()

	total := 100.0
	coupons := []models.Coupon{
		coupon("TINY", models.DiscountPercentage, 5, 0.1),
		coupon("BOGO", models.DiscountBOGO, 100, 0.5),
		coupon("FREESHIP", models.DiscountFreeShipping, 0, 0.8),
	}

	got := ofType(newTestRecommender().Recommend(coupons, &total), models.RecommendStacking)
	if len(got) != 1 {
		t.Fatalf("stacking recs = %d; want 1", len(got))
	}
	if want := []string{"FREESHIP", "BOGO"}; !reflect.DeepEqual(got[0].RelatedCoupons, want) {
		t.Errorf("RelatedCoupons = %v; want %v", got[0].RelatedCoupons, want)
	}
	if !strings.Contains(got[0].Message, "Use FREESHIP") {
		t.Errorf("message %q should advise FREESHIP", got[0].Message)
	}
}

func TestRecommend_NoStackingForSingleStrongCoupon(t *testing.T) {
	t.Parallel()

	total := 100.0
	coupons := []models.Coupon{
		coupon("TINY", models.DiscountPercentage, 5, 0.1),
		coupon("FREESHIP", models.DiscountFreeShipping, 0, 0.8),
	}
	if got := ofType(newTestRecommender().Recommend(coupons, &total), models.RecommendStacking); len(got) != 0 {
		t.Errorf("stacking recs = %v; want none", got)
	}
}

func TestRecommend_Expiry(t *testing.T) {
	t.Parallel()

	total := 100.0
	soon := coupon("SOON", models.DiscountFixed, 5, 0.5)
	soon.ExpiresAt = models.Int64Ptr(fixedNow.Add(5 * time.Hour).UnixMilli())
	gone := coupon("GONE", models.DiscountFixed, 5, 0.5)
	gone.ExpiresAt = models.Int64Ptr(fixedNow.Add(-time.Hour).UnixMilli())
	later := coupon("LATER", models.DiscountFixed, 5, 0.5)
	later.ExpiresAt = models.Int64Ptr(fixedNow.Add(10 * day).UnixMilli())
	stale := coupon("STALE", models.DiscountFixed, 5, 0.5)
	stale.LastVerifiedTS = verifiedAgo(10 * day)
	fresh := coupon("FRESH", models.DiscountFixed, 5, 0.5)

	got := ofType(newTestRecommender().Recommend([]models.Coupon{soon, gone, later, stale, fresh}, &total), models.RecommendExpiry)
	if len(got) != 2 {
		t.Fatalf("expiry recs = %d; want 2: %+v", len(got), got)
	}
	if got[0].RelatedCoupons[0] != "SOON" || !strings.Contains(got[0].Message, "5 hours") {
		t.Errorf("got[0] = %+v; want SOON expiring in 5 hours", got[0])
	}
	if got[1].RelatedCoupons[0] != "STALE" {
		t.Errorf("got[1] = %+v; want STALE", got[1])
	}
	for _, r := range got {
		if r.Urgency != models.UrgencyHigh {
			t.Errorf("urgency = %q; want high", r.Urgency)
		}
	}
}

func TestRecommend_Alternative(t *testing.T) {
	t.Parallel()

	total := 80.0
	coupons := []models.Coupon{
		coupon("SAVE10", models.DiscountPercentage, 10, 0.9),
		withMinimum(coupon("FLASH50", models.DiscountPercentage, 50, 0.9), 100),
	}

	got := ofType(newTestRecommender().Recommend(coupons, &total), models.RecommendAlternative)
	if len(got) != 1 {
		t.Fatalf("alternative recs = %d; want 1", len(got))
	}
	if want := []string{"FLASH50", "SAVE10"}; !reflect.DeepEqual(got[0].RelatedCoupons, want) {
		t.Errorf("RelatedCoupons = %v; want %v", got[0].RelatedCoupons, want)
	}
	if !strings.Contains(got[0].Message, "$100.00 minimum") {
		t.Errorf("message %q should state the minimum", got[0].Message)
	}
}

func TestRecommend_NoAlternativeWhenTopApplies(t *testing.T) {
	t.Parallel()

	total := 150.0
	coupons := []models.Coupon{
		coupon("SAVE10", models.DiscountPercentage, 10, 0.9),
		withMinimum(coupon("FLASH50", models.DiscountPercentage, 50, 0.9), 100),
	}
	if got := ofType(newTestRecommender().Recommend(coupons, &total), models.RecommendAlternative); len(got) != 0 {
		t.Errorf("alternative recs = %v; want none", got)
	}
}

func TestRecommend_CategoryOrder(t *testing.T) {
	t.Parallel()

	total := 80.0
	flash := withMinimum(coupon("FLASH50", models.DiscountPercentage, 50, 0.9), 100)
	flash.ExpiresAt = models.Int64Ptr(fixedNow.Add(2 * time.Hour).UnixMilli())
	coupons := []models.Coupon{
		flash,
		coupon("FREESHIP", models.DiscountFreeShipping, 0, 0.8),
		coupon("BOGO", models.DiscountBOGO, 100, 0.5),
	}

	recs := newTestRecommender().Recommend(coupons, &total)
	var types []string
	for _, r := range recs {
		types = append(types, r.Type)
	}
	want := []string{models.RecommendThreshold, models.RecommendStacking, models.RecommendExpiry}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v; want %v", types, want)
	}
}

func TestRecommend_NilCartTotal(t *testing.T) {
	t.Parallel()

	coupons := []models.Coupon{
		withMinimum(coupon("FLASH50", models.DiscountPercentage, 50, 0.9), 100),
		coupon("FREESHIP", models.DiscountFreeShipping, 0, 0.8),
	}
	recs := newTestRecommender().Recommend(coupons, nil)
	if len(ofType(recs, models.RecommendThreshold)) != 0 || len(ofType(recs, models.RecommendAlternative)) != 0 {
		t.Errorf("cart-dependent advice without a cart total: %+v", recs)
	}
	if len(ofType(recs, models.RecommendStacking)) != 1 {
		t.Errorf("expected stacking advice from success rates, got %+v", recs)
	}
}

func TestRecommend_Empty(t *testing.T) {
	t.Parallel()

	total := 50.0
	got := newTestRecommender().Recommend(nil, &total)
	if got == nil || len(got) != 0 {
		t.Errorf("Recommend(nil) = %v; want empty slice", got)
	}
}
