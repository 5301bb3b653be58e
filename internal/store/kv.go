// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Fixed keys for the three persisted state blobs. The blobs are opaque JSON
// with no schema versioning: a shape change requires deleting the database
// file and reseeding.
const (
	KeyReports = "reports"
	KeyUsers   = "users"
	KeySession = "session"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// opTimeout bounds each KV statement so callers can treat the adapter as
// synchronous without carrying a context through the state managers.
const opTimeout = 5 * time.Second

// KV is the key/value persistence adapter. Values are JSON-serialized on Set
// and decoded into the caller's destination on Get.
type KV struct {
	db *sql.DB
}

// NewKV creates a KV adapter over an opened, migrated database.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get decodes the value stored under key into dest.
// Returns ErrNotFound when the key is absent.
func (s *KV) Get(key string, dest any) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key. Removing an absent key is a no-op.
func (s *KV) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Has reports whether key has a stored value.
func (s *KV) Has(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv WHERE key = ?", key).Scan(&n); err != nil {
		return false, fmt.Errorf("checking %q: %w", key, err)
	}
	return n > 0, nil
}
