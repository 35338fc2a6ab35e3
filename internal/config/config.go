// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL"`
	DBPath      string `env:"DB_PATH" envDefault:"./data/dsa90.db"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	YouTube YouTubeConfig

	SaveDebounce time.Duration `env:"SAVE_DEBOUNCE" envDefault:"1s"`
	RefreshCron  string        `env:"REFRESH_CRON"` // empty disables scheduled refresh
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
}

// YouTubeConfig configures the playlist feed.
type YouTubeConfig struct {
	APIKey         string        `env:"YOUTUBE_API_KEY"`
	PlaylistID     string        `env:"PLAYLIST_ID" envDefault:"PLVItHqpXY_DArKRcfmGWykqV3u4hDaJLo"`
	BaseURL        string        `env:"YOUTUBE_BASE_URL" envDefault:"https://www.googleapis.com/youtube/v3"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.StoreDriver {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or bolt, got %q", c.StoreDriver)
	}
	if c.YouTube.PlaylistID == "" {
		return fmt.Errorf("PLAYLIST_ID cannot be empty")
	}
	if c.YouTube.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if c.SaveDebounce < 0 {
		return fmt.Errorf("SAVE_DEBOUNCE must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the API.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{c.FrontendURL}
}
