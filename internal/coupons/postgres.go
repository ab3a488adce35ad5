package coupons

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

const couponsByDomainQuery = `
		SELECT id, code, discount_type, discount_value, success_rate,
		       minimum_purchase, last_verified_ts, expires_at
		FROM coupons
		WHERE domain = $1
		ORDER BY id;
	`

// PostgresSource reads the coupons table
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource reads coupons through an open connection
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (p *PostgresSource) Coupons(ctx context.Context, domain string) ([]models.Coupon, error) {
	rows, err := p.db.QueryContext(ctx, couponsByDomainQuery, NormalizeDomain(domain))
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		var (
			c       models.Coupon
			minimum sql.NullFloat64
			expires sql.NullInt64
		)
		if err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.DiscountType,
			&c.DiscountValue,
			&c.SuccessRate,
			&minimum,
			&c.LastVerifiedTS,
			&expires,
		); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		if minimum.Valid {
			c.MinimumPurchase = models.Float64Ptr(minimum.Float64)
		}
		if expires.Valid {
			c.ExpiresAt = models.Int64Ptr(expires.Int64)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coupons: %w", err)
	}
	return coupons, nil
}
