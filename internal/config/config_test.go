package config

import (
	"os"
	"testing"
	"time"
)

// t.Setenv forbids t.Parallel, so these tests run sequentially.

// unsetenv removes key for the rest of the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"NATS_ENABLED", "HTTP_ADDR", "COUPON_SOURCE", "SESSION_TTL", "APPLY_RECENCY_BOOST", "DB_PORT", "INFERENCE_LATENCY"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.NatsEnabled || cfg.NatsChatSubject != "assistant.chat" || cfg.NatsRankSubject != "coupons.rank" {
		t.Errorf("NATS defaults = %+v", cfg)
	}
	if cfg.HTTPAddr != ":8080" || cfg.SessionTTL != 30*time.Minute || cfg.CouponSource != "static" {
		t.Errorf("defaults = %s %v %s", cfg.HTTPAddr, cfg.SessionTTL, cfg.CouponSource)
	}
	if !cfg.ApplyRecencyBoost || cfg.InferenceLatency != 250*time.Millisecond {
		t.Errorf("assistant defaults = %v %v", cfg.ApplyRecencyBoost, cfg.InferenceLatency)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("DB port = %d; want 5432", cfg.Postgres.Port)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("APPLY_RECENCY_BOOST", "0")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_URL", "")
	t.Setenv("COUPON_SOURCE", "file")
	t.Setenv("COUPON_DIR", "/tmp/coupons")
	t.Setenv("INFERENCE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NatsEnabled || cfg.ApplyRecencyBoost {
		t.Errorf("bool overrides ignored: %v %v", cfg.NatsEnabled, cfg.ApplyRecencyBoost)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.Postgres.Port != 6543 {
		t.Errorf("got %v %d", cfg.SessionTTL, cfg.Postgres.Port)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q; want empty", cfg.RedisURL)
	}
	if cfg.InferenceTimeout != 10*time.Second {
		t.Errorf("InferenceTimeout = %v; want default for bad value", cfg.InferenceTimeout)
	}
}

func TestLoad_HTTPDisabled(t *testing.T) {
	unsetenv(t, "COUPON_SOURCE")
	unsetenv(t, "NATS_ENABLED")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("HTTPAddr = %q; want empty", cfg.HTTPAddr)
	}

	t.Setenv("NATS_ENABLED", "false")
	if _, err := Load(); err == nil {
		t.Error("Load succeeded with both surfaces disabled")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{CouponSource: "static", HTTPAddr: ":8080", RedisURL: "redis://x"}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"static ok", func(*Config) {}, false},
		{"postgres ok", func(c *Config) { c.CouponSource = "postgres" }, false},
		{"unknown source", func(c *Config) { c.CouponSource = "ftp" }, true},
		{"file without dir", func(c *Config) { c.CouponSource = "file" }, true},
		{"file with dir", func(c *Config) { c.CouponSource, c.CouponDir = "file", "/data" }, false},
		{"redis without url", func(c *Config) { c.CouponSource, c.RedisURL = "redis", "" }, true},
		{"no surfaces", func(c *Config) { c.HTTPAddr = ""; c.NatsEnabled = false }, true},
		{"negative latency", func(c *Config) { c.InferenceLatency = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}
