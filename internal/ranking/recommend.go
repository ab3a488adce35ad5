package ranking

import (
	"fmt"
	"math"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

const (
	thresholdMinGap   = 20.0
	thresholdGapRatio = 0.3
	thresholdNearGap  = 10.0
	stackingMinScore  = 0.5
	expiryWindow      = 48 * time.Hour
)

// Recommender derives advice from the same coupon set the Scorer ranks.
type Recommender struct {
	scorer *Scorer
}

// NewRecommender creates a Recommender backed by scorer.
func NewRecommender(scorer *Scorer) *Recommender {
	return &Recommender{scorer: scorer}
}

// Recommend returns threshold, stacking, expiry and alternative advice, in
// that order. Each category triggers independently. Threshold and
// alternative advice need a cart total and are skipped when it is nil.
func (r *Recommender) Recommend(coupons []models.Coupon, cartTotal *float64) []models.AIRecommendation {
	recs := []models.AIRecommendation{}
	if len(coupons) == 0 {
		return recs
	}

	now := r.scorer.opts.Now()
	ranked := r.scorer.Rank(coupons, cartTotal)

	if cartTotal != nil {
		recs = append(recs, thresholdAdvice(coupons, *cartTotal)...)
	}
	if rec, ok := stackingAdvice(ranked); ok {
		recs = append(recs, rec)
	}
	recs = append(recs, expiryAdvice(coupons, now)...)
	if cartTotal != nil {
		if rec, ok := r.alternativeAdvice(coupons, ranked, cartTotal, now); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func thresholdAdvice(coupons []models.Coupon, total float64) []models.AIRecommendation {
	var recs []models.AIRecommendation
	maxGap := math.Max(thresholdMinGap, total*thresholdGapRatio)
	for _, c := range coupons {
		if c.MinimumPurchase == nil || *c.MinimumPurchase <= total {
			continue
		}
		gap := *c.MinimumPurchase - total
		if gap > maxGap {
			continue
		}
		urgency := models.UrgencyLow
		if gap <= thresholdNearGap {
			urgency = models.UrgencyMedium
		}
		recs = append(recs, models.AIRecommendation{
			Type:           models.RecommendThreshold,
			Message:        fmt.Sprintf("Add $%.2f more to your cart to unlock %s (%s).", gap, c.Code, describeValue(c)),
			RelatedCoupons: []string{c.Code},
			Urgency:        urgency,
		})
	}
	return recs
}

func stackingAdvice(ranked []models.RankedCoupon) (models.AIRecommendation, bool) {
	var codes []string
	for _, rc := range ranked {
		if rc.Score >= stackingMinScore {
			codes = append(codes, rc.Code)
		}
	}
	if len(codes) < 2 {
		return models.AIRecommendation{}, false
	}
	return models.AIRecommendation{
		Type: models.RecommendStacking,
		Message: fmt.Sprintf("%d strong codes found, but only one can be used per order. Use %s for the biggest savings.",
			len(codes), codes[0]),
		RelatedCoupons: codes,
		Urgency:        models.UrgencyLow,
	}, true
}

func expiryAdvice(coupons []models.Coupon, now time.Time) []models.AIRecommendation {
	var recs []models.AIRecommendation
	nowMS := now.UnixMilli()
	for _, c := range coupons {
		var msg string
		if c.ExpiresAt != nil {
			left := time.Duration(*c.ExpiresAt-nowMS) * time.Millisecond
			if left <= 0 {
				continue
			}
			if left <= expiryWindow {
				msg = fmt.Sprintf("%s expires in %s. Use it soon!", c.Code, humanizeHours(left))
			}
		}
		if msg == "" {
			days := float64(nowMS-c.LastVerifiedTS) / msPerDay
			if days > staleDays {
				msg = fmt.Sprintf("%s hasn't been verified in %d days and may have expired.", c.Code, int(days))
			}
		}
		if msg == "" {
			continue
		}
		recs = append(recs, models.AIRecommendation{
			Type:           models.RecommendExpiry,
			Message:        msg,
			RelatedCoupons: []string{c.Code},
			Urgency:        models.UrgencyHigh,
		})
	}
	return recs
}

// alternativeAdvice fires when the coupon that would score best without the
// minimum purchase gate is blocked by it.
func (r *Recommender) alternativeAdvice(coupons []models.Coupon, ranked []models.RankedCoupon, cartTotal *float64, now time.Time) (models.AIRecommendation, bool) {
	topIdx := -1
	var top evaluation
	for i, c := range coupons {
		ev := r.scorer.evaluate(c, cartTotal, now)
		if topIdx == -1 || ev.ungated > top.ungated {
			topIdx, top = i, ev
		}
	}
	if topIdx == -1 || !top.gated {
		return models.AIRecommendation{}, false
	}
	blocked := coupons[topIdx]

	// blocked itself scores 0, so the first positive entry is the alternative
	for _, rc := range ranked {
		if rc.Score <= 0 {
			continue
		}
		return models.AIRecommendation{
			Type: models.RecommendAlternative,
			Message: fmt.Sprintf("%s needs a $%.2f minimum purchase. Until then, %s is your best option (%s).",
				blocked.Code, *blocked.MinimumPurchase, rc.Code, describeValue(rc.Coupon)),
			RelatedCoupons: []string{blocked.Code, rc.Code},
			Urgency:        models.UrgencyMedium,
		}, true
	}
	return models.AIRecommendation{}, false
}

func describeValue(c models.Coupon) string {
	switch c.DiscountType {
	case models.DiscountPercentage:
		return fmt.Sprintf("%g%% off", c.DiscountValue)
	case models.DiscountFixed:
		return fmt.Sprintf("$%.2f off", c.DiscountValue)
	case models.DiscountFreeShipping:
		return "free shipping"
	case models.DiscountBOGO:
		return "buy one, get one"
	default:
		return "a discount"
	}
}

func humanizeHours(d time.Duration) string {
	h := int(math.Ceil(d.Hours()))
	if h <= 1 {
		return "less than an hour"
	}
	return fmt.Sprintf("%d hours", h)
}
