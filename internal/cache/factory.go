// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

const defaultCleanupInterval = time.Minute

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL enables the Redis backend when set, e.g. redis://localhost:6379/0.
	RedisURL string
	// Prefix is prepended to every Redis key.
	Prefix string
	// DefaultTTL is the expiry applied when Set is called with a zero TTL.
	DefaultTTL time.Duration
}

// New creates the configured cache. An unreachable Redis is downgraded to
// the in-memory backend with a warning rather than failing startup.
func New(cfg Config) Cache {
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return c
		}
		slog.Warn("redis cache unavailable, using memory cache", "error", err)
	}
	return NewMemoryCache(cfg.DefaultTTL, defaultCleanupInterval)
}
