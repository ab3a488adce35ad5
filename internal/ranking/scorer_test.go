package ranking

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/rng"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func verifiedAgo(d time.Duration) int64 {
	return fixedNow.Add(-d).UnixMilli()
}

const day = 24 * time.Hour

func newTestScorer(recency bool) *Scorer {
	return NewScorer(Options{
		ApplyRecencyBoost: recency,
		Now:               func() time.Time { return fixedNow },
		Rand:              rng.NewSequence(0.5),
	})
}

func coupon(code, kind string, value, sr float64) models.Coupon {
	return models.Coupon{
		ID:             code,
		Code:           code,
		DiscountType:   kind,
		DiscountValue:  value,
		SuccessRate:    sr,
		LastVerifiedTS: verifiedAgo(3 * day),
	}
}

func TestScore_TypeFormulas(t *testing.T) {
	t.Parallel()

	total := 100.0
	tests := []struct {
		name   string
		coupon models.Coupon
		want   float64
	}{
		{"percentage", coupon("SAVE25", models.DiscountPercentage, 25, 0.9), 0.38},
		{"percentage capped at cart", coupon("ALL", models.DiscountPercentage, 150, 0.5), 0.9},
		{"fixed", coupon("TENOFF", models.DiscountFixed, 10, 0.5), 0.22},
		{"free shipping", coupon("FREESHIP", models.DiscountFreeShipping, 0, 0.8), 0.9},
		{"bogo", coupon("BOGO", models.DiscountBOGO, 100, 0.5), 0.8},
		{"unknown type", coupon("ODD", "mystery", 50, 1), 0},
		{"missing value", coupon("EMPTY", models.DiscountPercentage, 0, 0.5), 0.1},
	}

	s := newTestScorer(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := s.Score(tt.coupon, &total); got != tt.want {
				t.Errorf("Score = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestScore_MinimumPurchaseGate(t *testing.T) {
	t.Parallel()

	total := 100.0
	c := coupon("SAVE25", models.DiscountPercentage, 25, 0.9)
	c.MinimumPurchase = models.Float64Ptr(200)

	for _, recency := range []bool{true, false} {
		if got := newTestScorer(recency).Score(c, &total); got != 0 {
			t.Errorf("recency=%v: Score = %v; want 0", recency, got)
		}
	}

	c.MinimumPurchase = models.Float64Ptr(100)
	if got := newTestScorer(true).Score(c, &total); got != 0.38 {
		t.Errorf("Score at exact minimum = %v; want 0.38", got)
	}
}

func TestScore_Recency(t *testing.T) {
	t.Parallel()

	total := 100.0
	tests := []struct {
		name     string
		verified time.Duration
		recency  bool
		want     float64
	}{
		{"fresh boosted", time.Hour, true, 0.456},
		{"middle unchanged", 3 * day, true, 0.38},
		{"exactly seven days unchanged", 7 * day, true, 0.38},
		{"stale penalised", 10 * day, true, 0.342},
		{"legacy ignores freshness", time.Hour, false, 0.38},
		{"legacy ignores staleness", 10 * day, false, 0.38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := coupon("SAVE25", models.DiscountPercentage, 25, 0.9)
			c.LastVerifiedTS = verifiedAgo(tt.verified)
			if got := newTestScorer(tt.recency).Score(c, &total); got != tt.want {
				t.Errorf("Score = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestScore_ClampedAfterBoost(t *testing.T) {
	t.Parallel()

	total := 40.0
	c := coupon("FREESHIP", models.DiscountFreeShipping, 0, 1)
	c.LastVerifiedTS = verifiedAgo(time.Minute)
	if got := newTestScorer(true).Score(c, &total); got != 1 {
		t.Errorf("Score = %v; want 1", got)
	}
}

func TestScore_NilCartTotal(t *testing.T) {
	t.Parallel()

	c := coupon("SAVE25", models.DiscountPercentage, 25, 0.9)
	c.MinimumPurchase = models.Float64Ptr(500)
	if got := newTestScorer(false).Score(c, nil); got != 0.9 {
		t.Errorf("Score = %v; want 0.9 (success rate only)", got)
	}
}

func TestScore_ZeroCartTotal(t *testing.T) {
	t.Parallel()

	zero := 0.0
	c := coupon("SAVE25", models.DiscountPercentage, 25, 0.9)
	if got := newTestScorer(false).Score(c, &zero); got != 0.18 {
		t.Errorf("Score = %v; want 0.18", got)
	}
	c.MinimumPurchase = models.Float64Ptr(10)
	if got := newTestScorer(false).Score(c, &zero); got != 0 {
		t.Errorf("gated Score = %v; want 0", got)
	}
}

func TestScore_NonFiniteInput(t *testing.T) {
	t.Parallel()

	total := 100.0
	c := coupon("NAN", models.DiscountPercentage, math.NaN(), math.Inf(1))
	got := newTestScorer(true).Score(c, &total)
	if math.IsNaN(got) || got < 0 || got > 1 {
		t.Errorf("Score = %v; want finite value in [0,1]", got)
	}
}

func TestRank_OrdersByScore(t *testing.T) {
	t.Parallel()

	total := 100.0
	a := coupon("A", models.DiscountPercentage, 25, 0.9)  // 0.38
	b := coupon("B", models.DiscountFreeShipping, 0, 0.8) // 0.9
	got := newTestScorer(true).Rank([]models.Coupon{a, b}, &total)

	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].Code != "B" || got[1].Code != "A" {
		t.Errorf("order = [%s %s]; want [B A]", got[0].Code, got[1].Code)
	}
	if got[0].Kind() != models.KindRanked {
		t.Errorf("Kind = %q; want %q", got[0].Kind(), models.KindRanked)
	}
	if got[1].PotentialSavings != 25 {
		t.Errorf("PotentialSavings = %v; want 25", got[1].PotentialSavings)
	}
}

func TestRank_StableForTies(t *testing.T) {
	t.Parallel()

	total := 50.0
	coupons := []models.Coupon{
		coupon("FIRST", models.DiscountFixed, 5, 0.5),
		coupon("SECOND", models.DiscountFixed, 5, 0.5),
		coupon("THIRD", models.DiscountFixed, 5, 0.5),
	}
	got := newTestScorer(true).Rank(coupons, &total)
	for i, want := range []string{"FIRST", "SECOND", "THIRD"} {
		if got[i].Code != want {
			t.Errorf("got[%d] = %s; want %s", i, got[i].Code, want)
		}
	}
}

func TestRank_IdempotentAndPure(t *testing.T) {
	t.Parallel()

	total := 80.0
	coupons := []models.Coupon{
		coupon("P", models.DiscountPercentage, 20, 0.7),
		coupon("F", models.DiscountFixed, 15, 0.9),
		coupon("S", models.DiscountFreeShipping, 0, 0.4),
		coupon("G", models.DiscountBOGO, 50, 0.2),
	}
	before := append([]models.Coupon(nil), coupons...)

	s := NewScorer(Options{ApplyRecencyBoost: true, Now: func() time.Time { return fixedNow }})
	first := s.Rank(coupons, &total)
	second := s.Rank(coupons, &total)

	if !reflect.DeepEqual(coupons, before) {
		t.Error("Rank mutated its input")
	}
	for i := range first {
		if first[i].Code != second[i].Code || first[i].Score != second[i].Score {
			t.Errorf("position %d differs: %s/%v vs %s/%v",
				i, first[i].Code, first[i].Score, second[i].Code, second[i].Score)
		}
	}
}

func TestRank_ConfidenceRange(t *testing.T) {
	t.Parallel()

	total := 100.0
	s := NewScorer(Options{
		Now:  func() time.Time { return fixedNow },
		Rand: rng.NewSequence(0, 0.5, 0.9999),
	})
	coupons := []models.Coupon{
		coupon("A", models.DiscountFixed, 1, 0.1),
		coupon("B", models.DiscountFixed, 1, 0.1),
		coupon("C", models.DiscountFixed, 1, 0.1),
	}
	got := s.Rank(coupons, &total)
	want := []float64{0.85, 0.925, 0.85 + 0.9999*0.15}
	for i := range got {
		if math.Abs(got[i].Confidence-want[i]) > 1e-9 {
			t.Errorf("Confidence[%d] = %v; want %v", i, got[i].Confidence, want[i])
		}
		if got[i].Confidence < 0.85 || got[i].Confidence > 1 {
			t.Errorf("Confidence[%d] = %v out of range", i, got[i].Confidence)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()

	total := 10.0
	got := newTestScorer(true).Rank(nil, &total)
	if got == nil || len(got) != 0 {
		t.Errorf("Rank(nil) = %v; want empty slice", got)
	}
}

func TestRank_BoundsAndOrderProperty(t *testing.T) {
	t.Parallel()

	kinds := []string{models.DiscountPercentage, models.DiscountFixed, models.DiscountFreeShipping, models.DiscountBOGO, "unknown"}
	values := []float64{0, 5, 50, 100, 500}
	rates := []float64{0, 0.3, 1}
	ages := []time.Duration{time.Minute, 3 * day, 30 * day}
	totals := []float64{1, 25, 100, 1000}

	var coupons []models.Coupon
	for _, k := range kinds {
		for _, v := range values {
			for _, r := range rates {
				for _, a := range ages {
					c := coupon(k, k, v, r)
					c.LastVerifiedTS = verifiedAgo(a)
					if v == 50 {
						c.MinimumPurchase = models.Float64Ptr(60)
					}
					coupons = append(coupons, c)
				}
			}
		}
	}

	for _, recency := range []bool{true, false} {
		s := newTestScorer(recency)
		for _, total := range totals {
			total := total
			ranked := s.Rank(coupons, &total)
			for i, rc := range ranked {
				if rc.Score < 0 || rc.Score > 1 {
					t.Fatalf("score %v out of bounds", rc.Score)
				}
				if rc.MinimumPurchase != nil && *rc.MinimumPurchase > total && rc.Score != 0 {
					t.Fatalf("gated coupon scored %v at total %v", rc.Score, total)
				}
				if i > 0 && ranked[i-1].Score < rc.Score {
					t.Fatalf("not sorted at %d: %v < %v", i, ranked[i-1].Score, rc.Score)
				}
			}
		}
	}
}
