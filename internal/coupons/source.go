// Package coupons provides the pluggable coupon sources the ranker reads
// from. Every source returns an empty, non-nil slice for unknown domains.
package coupons

import (
	"context"
	"strings"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// Source kinds accepted by COUPON_SOURCE
const (
	KindStatic   = "static"
	KindRedis    = "redis"
	KindPostgres = "postgres"
	KindFile     = "file"
)

// Source supplies coupons for a shop domain
type Source interface {
	Coupons(ctx context.Context, domain string) ([]models.Coupon, error)
}

// NormalizeDomain lowercases domain and drops a leading "www."
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

// PageData adapts a fetched coupon list to assistant.PageDataProvider.
// A nil PageData reports no page data.
type PageData []models.Coupon

func (p PageData) GetCoupons() []models.Coupon {
	return p
}
