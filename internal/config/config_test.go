package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RateLimitMax != 3 {
		t.Errorf("expected default rate limit 3, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != time.Hour {
		t.Errorf("expected default window 1h, got %s", cfg.RateLimitWindow)
	}
	if cfg.AccessTokenExpiry != 30*time.Minute {
		t.Errorf("expected default token expiry 30m, got %s", cfg.AccessTokenExpiry)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected default CORS origins [*], got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.RateLimitMax != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 10*time.Minute {
		t.Errorf("expected window 10m, got %s", cfg.RateLimitWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
}

func TestGetEnvAsIntBadValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")
	cfg := Load()
	if cfg.RateLimitMax != 3 {
		t.Errorf("expected fallback to 3, got %d", cfg.RateLimitMax)
	}
}
