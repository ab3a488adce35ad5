package coupons

import (
	"context"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// StaticSource serves the same sample coupons for every domain. It stands in
// for the extension's network fetch.
type StaticSource struct {
	now func() time.Time
}

// NewStaticSource creates the built-in sample source
func NewStaticSource() *StaticSource {
	return &StaticSource{now: time.Now}
}

func (s *StaticSource) Coupons(_ context.Context, domain string) ([]models.Coupon, error) {
	now := s.now()
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	in := func(d time.Duration) *int64 { return models.Int64Ptr(now.Add(d).UnixMilli()) }
	prefix := NormalizeDomain(domain) + ":"

	return []models.Coupon{
		{ID: prefix + "save20", Code: "SAVE20", DiscountType: models.DiscountPercentage, DiscountValue: 20, SuccessRate: 0.85, LastVerifiedTS: ago(2 * time.Hour)},
		{ID: prefix + "save10", Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, SuccessRate: 0.92, MinimumPurchase: models.Float64Ptr(50), LastVerifiedTS: ago(30 * time.Hour)},
		{ID: prefix + "freeship", Code: "FREESHIP", DiscountType: models.DiscountFreeShipping, SuccessRate: 0.78, LastVerifiedTS: ago(3 * 24 * time.Hour)},
		{ID: prefix + "flash50", Code: "FLASH50", DiscountType: models.DiscountPercentage, DiscountValue: 50, SuccessRate: 0.35, MinimumPurchase: models.Float64Ptr(150), LastVerifiedTS: ago(6 * time.Hour), ExpiresAt: in(20 * time.Hour)},
		{ID: prefix + "mega30", Code: "MEGA30", DiscountType: models.DiscountPercentage, DiscountValue: 30, SuccessRate: 0.6, MinimumPurchase: models.Float64Ptr(100), LastVerifiedTS: ago(10 * 24 * time.Hour)},
		{ID: prefix + "take15", Code: "TAKE15", DiscountType: models.DiscountFixed, DiscountValue: 15, SuccessRate: 0.7, MinimumPurchase: models.Float64Ptr(75), LastVerifiedTS: ago(12 * time.Hour)},
		{ID: prefix + "student15", Code: "STUDENT15", DiscountType: models.DiscountPercentage, DiscountValue: 15, SuccessRate: 0.5, LastVerifiedTS: ago(4 * 24 * time.Hour)},
		{ID: prefix + "bogo", Code: "BOGOFREE", DiscountType: models.DiscountBOGO, DiscountValue: 100, SuccessRate: 0.4, LastVerifiedTS: ago(8 * 24 * time.Hour)},
	}, nil
}
