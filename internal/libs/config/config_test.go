package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Test with default values
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected default APIPort=8080, got %s", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.PageSize != 12 {
		t.Errorf("expected default PageSize=12, got %d", cfg.PageSize)
	}
	if cfg.RecentlyViewedMax != 10 {
		t.Errorf("expected default RecentlyViewedMax=10, got %d", cfg.RecentlyViewedMax)
	}
	if cfg.DefaultSort != "recommendation" {
		t.Errorf("expected default DefaultSort=recommendation, got %s", cfg.DefaultSort)
	}
	if cfg.ReloadInterval != 5*time.Minute {
		t.Errorf("expected default ReloadInterval=5m, got %v", cfg.ReloadInterval)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected Addr 0.0.0.0:8080, got %s", cfg.Addr())
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PAGE_SIZE", "24")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RELOAD_INTERVAL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("expected APIPort=9000, got %s", cfg.APIPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}
	if cfg.PageSize != 24 {
		t.Errorf("expected PageSize=24, got %d", cfg.PageSize)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("expected RateLimitRPS=2.5, got %g", cfg.RateLimitRPS)
	}
	if cfg.ReloadInterval != 30*time.Second {
		t.Errorf("expected ReloadInterval=30s, got %v", cfg.ReloadInterval)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected RedisURL %s", cfg.RedisURL)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric page size", "PAGE_SIZE", "twelve"},
		{"zero page size", "PAGE_SIZE", "0"},
		{"negative history max", "RECENTLY_VIEWED_MAX", "-1"},
		{"bad duration", "RELOAD_INTERVAL", "soon"},
		{"bad rate", "RATE_LIMIT_RPS", "fast"},
		{"negative rate", "RATE_LIMIT_RPS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
