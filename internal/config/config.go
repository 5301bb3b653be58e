// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SOTORKO_DB_PATH" envDefault:"./data/sotorko.db"`
	ServerHost string `env:"SOTORKO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SOTORKO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SOTORKO_ENV" envDefault:"development"`
	LogLevel   string `env:"SOTORKO_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"SOTORKO_UPLOADS_DIR" envDefault:"./uploads"`

	// AI assessment configuration; analysis is disabled without a key.
	OpenAIAPIKey string `env:"SOTORKO_OPENAI_API_KEY"`
	OpenAIModel  string `env:"SOTORKO_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Cache configuration
	RedisURL    string `env:"SOTORKO_REDIS_URL"` // optional Redis URL for the dashboard cache
	CachePrefix string `env:"SOTORKO_CACHE_PREFIX" envDefault:"sotorko:"`
	CacheTTL    int    `env:"SOTORKO_CACHE_TTL" envDefault:"300"` // seconds

	// Role table and seed data
	AdminEmail     string `env:"SOTORKO_ADMIN_EMAIL" envDefault:"admin@sotorko.com"`
	ModeratorEmail string `env:"SOTORKO_MODERATOR_EMAIL" envDefault:"mod@sotorko.com"`
	AdminPassword  string `env:"SOTORKO_ADMIN_PASSWORD" envDefault:"Admin786@"`
	DoSeed         bool   `env:"SOTORKO_DO_SEED" envDefault:"true"`

	// Auth route rate limiting
	AuthRateLimit float64 `env:"SOTORKO_AUTH_RATE_LIMIT" envDefault:"2"`
	AuthRateBurst int     `env:"SOTORKO_AUTH_RATE_BURST" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// AnalyzerEnabled returns true if an OpenAI key is configured.
func (c Config) AnalyzerEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
