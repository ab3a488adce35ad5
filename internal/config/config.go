package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/coupons"
	"github.com/avvvet/couponbuddy-assistant/pkg/db"
)

// Config holds the service settings read from the environment
type Config struct {
	// NATS configuration
	NatsEnabled          bool
	NatsURL              string
	NatsChatSubject      string
	NatsRankSubject      string
	NatsRecommendSubject string
	NatsTimeout          time.Duration

	// HTTP configuration; empty HTTPAddr disables the HTTP surface
	HTTPAddr string

	// Conversation store; empty RedisURL keeps history in memory
	RedisURL   string
	SessionTTL time.Duration

	// Coupon source
	CouponSource string
	CouponDir    string
	Postgres     db.PostgresConfig

	// Assistant configuration
	ApplyRecencyBoost bool
	InferenceLatency  time.Duration
	InferenceTimeout  time.Duration
	KnowledgeBasePath string

	// Service configuration
	ServiceName string
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{
		// NATS settings
		NatsEnabled:          getBoolEnv("NATS_ENABLED", true),
		NatsURL:              getEnv("NATS_URL", "nats://localhost:4222"),
		NatsChatSubject:      getEnv("NATS_CHAT_SUBJECT", "assistant.chat"),
		NatsRankSubject:      getEnv("NATS_RANK_SUBJECT", "coupons.rank"),
		NatsRecommendSubject: getEnv("NATS_RECOMMEND_SUBJECT", "coupons.recommend"),
		NatsTimeout:          getDurationEnv("NATS_TIMEOUT", 30*time.Second),

		HTTPAddr: getEnvAllowEmpty("HTTP_ADDR", ":8080"),

		RedisURL:   getEnvAllowEmpty("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		CouponSource: getEnv("COUPON_SOURCE", coupons.KindStatic),
		CouponDir:    getEnv("COUPON_DIR", ""),
		Postgres: db.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getIntEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "couponbuddy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		ApplyRecencyBoost: getBoolEnv("APPLY_RECENCY_BOOST", true),
		InferenceLatency:  getDurationEnv("INFERENCE_LATENCY", 250*time.Millisecond),
		InferenceTimeout:  getDurationEnv("INFERENCE_TIMEOUT", 10*time.Second),
		KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", ""),

		ServiceName: getEnv("SERVICE_NAME", "couponbuddy-assistant"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	switch c.CouponSource {
	case coupons.KindStatic, coupons.KindPostgres:
	case coupons.KindRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("COUPON_SOURCE=redis requires REDIS_URL")
		}
	case coupons.KindFile:
		if c.CouponDir == "" {
			return fmt.Errorf("COUPON_SOURCE=file requires COUPON_DIR")
		}
	default:
		return fmt.Errorf("unknown COUPON_SOURCE %q", c.CouponSource)
	}

	if c.HTTPAddr == "" && !c.NatsEnabled {
		return fmt.Errorf("both HTTP and NATS are disabled")
	}
	if c.InferenceTimeout < 0 || c.InferenceLatency < 0 {
		return fmt.Errorf("inference durations must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty returns the default only when key is unset
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
