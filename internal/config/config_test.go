package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANIMEFINDER_USER_API_URL", "https://mock.test/user_info")
	t.Setenv("ANIMEFINDER_REVIEW_API_URL", "https://mock.test/AnimeReview")
	t.Setenv("ANIMEFINDER_SESSION_HASH_KEY", strings.Repeat("k", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != DefaultHTTPAddr {
		t.Fatalf("unexpected addr: %s", cfg.HTTPAddr)
	}
	if cfg.CatalogBaseURL != DefaultCatalogBaseURL {
		t.Fatalf("unexpected catalog base: %s", cfg.CatalogBaseURL)
	}
	if cfg.IdleTimeout != 2*time.Hour {
		t.Fatalf("unexpected idle timeout: %s", cfg.IdleTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANIMEFINDER_HTTP_ADDR", ":9090")
	t.Setenv("ANIMEFINDER_IDLE_TIMEOUT", "45m")
	t.Setenv("ANIMEFINDER_CATALOG_BASE_URL", "https://catalog.test/v4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.HTTPAddr)
	}
	if cfg.IdleTimeout != 45*time.Minute {
		t.Fatalf("unexpected idle timeout: %s", cfg.IdleTimeout)
	}
	if cfg.CatalogBaseURL != "https://catalog.test/v4" {
		t.Fatalf("unexpected catalog base: %s", cfg.CatalogBaseURL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("ANIMEFINDER_USER_API_URL", "")
	t.Setenv("ANIMEFINDER_REVIEW_API_URL", "")
	t.Setenv("ANIMEFINDER_SESSION_HASH_KEY", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for missing required values")
	}
}

func TestLoadRejectsBadIdleTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANIMEFINDER_IDLE_TIMEOUT", "whenever")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for bad idle timeout")
	}
}

func TestLoadRejectsBadBlockKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANIMEFINDER_SESSION_BLOCK_KEY", "only-thirteen")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for odd block key size")
	}
}
