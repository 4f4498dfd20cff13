// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "ANIMEFINDER"

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultHTTPAddr       = ":8080"
	DefaultCatalogBaseURL = "https://api.jikan.moe/v4"
	DefaultIdleTimeout    = 2 * time.Hour
	DefaultLogLevel       = "info"
)

// Config carries everything the binary needs to run. The three upstream
// URLs are the only external integration points.
type Config struct {
	HTTPAddr       string
	CatalogBaseURL string
	UserAPIURL     string
	ReviewAPIURL   string

	SessionHashKey  []byte
	SessionBlockKey []byte
	IdleTimeout     time.Duration

	LogLevel string
}

// Load reads configuration from ANIMEFINDER_* environment variables and
// validates required values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("idle_timeout", DefaultIdleTimeout.String())
	v.SetDefault("log_level", DefaultLogLevel)

	cfg := &Config{
		HTTPAddr:        v.GetString("http_addr"),
		CatalogBaseURL:  v.GetString("catalog_base_url"),
		UserAPIURL:      v.GetString("user_api_url"),
		ReviewAPIURL:    v.GetString("review_api_url"),
		SessionHashKey:  []byte(v.GetString("session_hash_key")),
		SessionBlockKey: []byte(v.GetString("session_block_key")),
		LogLevel:        v.GetString("log_level"),
	}

	idle, err := time.ParseDuration(v.GetString("idle_timeout"))
	if err != nil {
		return nil, fmt.Errorf("config: parse idle timeout: %w", err)
	}
	cfg.IdleTimeout = idle

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	if strings.TrimSpace(c.UserAPIURL) == "" {
		problems = append(problems, "ANIMEFINDER_USER_API_URL is required")
	}
	if strings.TrimSpace(c.ReviewAPIURL) == "" {
		problems = append(problems, "ANIMEFINDER_REVIEW_API_URL is required")
	}
	if len(c.SessionHashKey) < 32 {
		problems = append(problems, "ANIMEFINDER_SESSION_HASH_KEY must be at least 32 bytes")
	}
	if n := len(c.SessionBlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		problems = append(problems, "ANIMEFINDER_SESSION_BLOCK_KEY must be 16, 24 or 32 bytes")
	}
	if c.IdleTimeout <= 0 {
		problems = append(problems, "ANIMEFINDER_IDLE_TIMEOUT must be positive")
	}
	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
