package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/shoplite_test")
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default cache TTL 5m, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("expected default cleanup interval 5m, got %s", cfg.Cache.CleanupInterval)
	}
	if cfg.HasGoogle() {
		t.Error("Google sign-in should not be configured by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9999")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("expected cache TTL 90s, got %s", cfg.Cache.TTL)
	}
	if !cfg.HasGoogle() {
		t.Error("Google sign-in should be configured")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	_ = os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}

	setRequired(t)
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing SESSION_SECRET")
	}
}

func TestLoadInvalidTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "-1m")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-positive CACHE_TTL")
	}
}
