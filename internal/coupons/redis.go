package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisSource reads a JSON coupon array stored at coupons:<domain>
type RedisSource struct {
	client *redis.Client
}

// NewRedisSource reads coupon lists stored under coupons:<domain>
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

func (r *RedisSource) key(domain string) string {
	return fmt.Sprintf("coupons:%s", NormalizeDomain(domain))
}

func (r *RedisSource) Coupons(ctx context.Context, domain string) ([]models.Coupon, error) {
	data, err := r.client.Get(ctx, r.key(domain)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Coupon{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupons from Redis: %w", err)
	}

	coupons := []models.Coupon{}
	if err := json.Unmarshal(data, &coupons); err != nil {
		return nil, fmt.Errorf("failed to parse coupons for %s: %w", domain, err)
	}
	return coupons, nil
}

// Put replaces the coupon list for domain
func (r *RedisSource) Put(ctx context.Context, domain string, coupons []models.Coupon) error {
	data, err := json.Marshal(coupons)
	if err != nil {
		return fmt.Errorf("failed to marshal coupons: %w", err)
	}
	if err := r.client.Set(ctx, r.key(domain), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save coupons to Redis: %w", err)
	}
	return nil
}
