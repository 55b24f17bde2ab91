// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	APIPort  string
	APIHost  string
	LogLevel string

	// Catalog source; DatabaseURL wins over CatalogFile when both are set
	DatabaseURL    string
	CatalogFile    string
	ReloadInterval time.Duration

	RedisURL      string
	RedisPassword string
	HistoryTTL    time.Duration
	RabbitURL     string

	PageSize          int
	RecentlyViewedMax int
	DefaultSort       string
	MemoCapacity      int

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from a .env file, if present, and environment variables
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:       getEnv("API_PORT", "8080"),
		APIHost:       getEnv("API_HOST", "0.0.0.0"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CatalogFile:   getEnv("CATALOG_FILE", "data/catalog.jsonl"),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RabbitURL:     getEnv("RABBIT_URL", ""),
		DefaultSort:   getEnv("DEFAULT_SORT", "recommendation"),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("PAGE_SIZE", 12); err != nil {
		return nil, err
	}
	if cfg.RecentlyViewedMax, err = getEnvInt("RECENTLY_VIEWED_MAX", 10); err != nil {
		return nil, err
	}
	if cfg.MemoCapacity, err = getEnvInt("MEMO_CAPACITY", 256); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.ReloadInterval, err = getEnvDuration("RELOAD_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HistoryTTL, err = getEnvDuration("HISTORY_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" && cfg.CatalogFile == "" {
		return nil, fmt.Errorf("DATABASE_URL or CATALOG_FILE is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.RecentlyViewedMax <= 0 {
		return nil, fmt.Errorf("RECENTLY_VIEWED_MAX must be positive, got %d", cfg.RecentlyViewedMax)
	}
	if cfg.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %g", cfg.RateLimitRPS)
	}

	return cfg, nil
}

// Addr is the listen address for the API server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
