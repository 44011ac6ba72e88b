// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all settings for the API server and the worker.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	SessionSecret string `env:"SESSION_SECRET"`

	SMTPAddr  string `env:"SMTP_ADDR" envDefault:"localhost:1025"`
	EmailFrom string `env:"EMAIL_FROM" envDefault:"no-reply@shoplite.local"`

	Cache  CacheConfig
	Google GoogleConfig
}

// CacheConfig controls the in-process response and report caches.
type CacheConfig struct {
	TTL             time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"5m"`
}

// GoogleConfig holds the optional Google sign-in credentials.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.CleanupInterval <= 0 {
		return nil, fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive, got %s", cfg.Cache.CleanupInterval)
	}
	return cfg, nil
}

// HasGoogle returns true if Google sign-in is configured.
func (c *Config) HasGoogle() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}
