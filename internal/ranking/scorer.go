// Package ranking scores coupons against a cart and derives advice from the
// ranked set.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/rng"
)

const (
	// assumed value of a free shipping coupon
	shippingValue = 10.0

	msPerDay = 86400000.0

	freshBoost    = 1.2
	stalePenalty  = 0.9
	freshDays     = 1.0
	staleDays     = 7.0
	minConfidence = 0.85
	confidenceGap = 0.15
)

// Options configures a Scorer.
type Options struct {
	// ApplyRecencyBoost multiplies scores by 1.2 for coupons verified within
	// a day and by 0.9 for coupons not verified for over a week.
	ApplyRecencyBoost bool
	Now               func() time.Time
	Rand              rng.Source
}

// Scorer ranks coupons. It holds no state besides its options.
type Scorer struct {
	opts Options
}

// NewScorer creates a Scorer, applying defaults for the clock and RNG.
func NewScorer(opts Options) *Scorer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rng.Default()
	}
	return &Scorer{opts: opts}
}

// evaluation is the intermediate result for one coupon.
type evaluation struct {
	score   float64 // final score
	ungated float64 // score before the minimum purchase gate
	gated   bool
	savings float64
}

// Rank scores every coupon against cartTotal and returns them best first.
// The input slice is never modified. When cartTotal is nil the score is the
// coupon's success rate and the minimum purchase gate is skipped.
func (s *Scorer) Rank(coupons []models.Coupon, cartTotal *float64) []models.RankedCoupon {
	ranked := make([]models.RankedCoupon, len(coupons))
	now := s.opts.Now()
	for i, c := range coupons {
		ev := s.evaluate(c, cartTotal, now)
		ranked[i] = models.RankedCoupon{
			Coupon:           c,
			Score:            ev.score,
			Confidence:       minConfidence + s.opts.Rand.Next()*confidenceGap,
			PotentialSavings: ev.savings,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Score returns the final score for a single coupon.
func (s *Scorer) Score(c models.Coupon, cartTotal *float64) float64 {
	return s.evaluate(c, cartTotal, s.opts.Now()).score
}

func (s *Scorer) evaluate(c models.Coupon, cartTotal *float64, now time.Time) evaluation {
	var score, savings float64
	sr := finite(c.SuccessRate)
	value := finite(c.DiscountValue)

	if cartTotal == nil {
		score = sr
	} else {
		total := finite(*cartTotal)
		switch c.DiscountType {
		case models.DiscountPercentage:
			savings = total * value / 100
			score = savingsRatio(savings, total)*0.8 + sr*0.2
		case models.DiscountFixed:
			savings = value
			score = savingsRatio(savings, total)*0.7 + sr*0.3
		case models.DiscountFreeShipping:
			savings = shippingValue
			score = 0.5 + sr*0.5
		case models.DiscountBOGO:
			savings = total * value / 200
			score = 0.6 + sr*0.4
		}
	}

	ev := evaluation{savings: savings}
	ev.ungated = s.finish(score, c, now)

	if cartTotal != nil && c.MinimumPurchase != nil && finite(*cartTotal) < *c.MinimumPurchase {
		ev.gated = true
		score = 0
	}
	ev.score = s.finish(score, c, now)
	return ev
}

// finish applies the recency multiplier, clamps to [0,1] and rounds to 3 places.
func (s *Scorer) finish(score float64, c models.Coupon, now time.Time) float64 {
	if s.opts.ApplyRecencyBoost {
		days := float64(now.UnixMilli()-c.LastVerifiedTS) / msPerDay
		switch {
		case days < freshDays:
			score *= freshBoost
		case days > staleDays:
			score *= stalePenalty
		}
	}
	score = math.Max(0, math.Min(finite(score), 1))
	return math.Round(score*1000) / 1000
}

// savingsRatio is min(savings/total, 1), or 0 when total is not positive.
func savingsRatio(savings, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(savings/total, 1)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
