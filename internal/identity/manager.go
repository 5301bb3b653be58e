// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity owns the user directory and the current session, and
// answers the freshness question for step-up verification.
package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/model"
	"github.com/olegiv/sotorko-go/internal/store"
)

// FreshnessWindow is how long a verification is considered fresh. A user
// verified at T is fresh strictly before T+FreshnessWindow.
const FreshnessWindow = 5 * time.Minute

// ReputationSeed is the starting reputation for a first-seen user.
const ReputationSeed = 10

// Config holds the explicit email-to-role table. Keeping the rule as data
// rather than inline comparisons keeps it auditable and testable.
type Config struct {
	AdminEmail     string
	ModeratorEmail string
}

// Manager owns the user directory and the at-most-one current session.
// Every mutation is mirrored to the persistent store.
type Manager struct {
	mu    sync.Mutex
	kv    *store.KV
	users []model.User
	// session holds the id of the current user, or "" when anonymous.
	// The record itself lives in the directory; the session is a reference.
	session string

	roles map[string]string

	now func() time.Time // injectable for tests
}

// New creates a Manager hydrated from the store.
func New(kv *store.KV, cfg Config) (*Manager, error) {
	m := &Manager{
		kv: kv,
		roles: map[string]string{
			model.NormalizeEmail(cfg.AdminEmail):     model.RoleAdmin,
			model.NormalizeEmail(cfg.ModeratorEmail): model.RoleModerator,
		},
		now: time.Now,
	}
	delete(m.roles, "") // unset config entries must not map empty emails

	if err := kv.Get(store.KeyUsers, &m.users); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("hydrating user directory: %w", err)
	}

	var sessionUser model.User
	err := kv.Get(store.KeySession, &sessionUser)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// anonymous boot
	case err != nil:
		return nil, fmt.Errorf("hydrating session: %w", err)
	default:
		// Re-resolve by id: the directory is authoritative, the stored
		// session blob may be stale.
		if _, ok := m.findByID(sessionUser.ID); ok {
			m.session = sessionUser.ID
		}
	}

	return m, nil
}

// RoleFor resolves the role a first-seen email receives.
func (m *Manager) RoleFor(email string) string {
	if role, ok := m.roles[model.NormalizeEmail(email)]; ok {
		return role
	}
	return model.RoleUser
}

// Login normalizes the email, creates the user on first sight (role from the
// email-to-role table, reputation seed, fresh verification) or refreshes the
// existing record, makes it the current session, and persists everything.
func (m *Manager) Login(email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = model.NormalizeEmail(email)
	now := m.now()

	i, ok := m.findByEmail(email)
	if !ok {
		u := model.User{
			ID:             uuid.NewString(),
			Email:          email,
			Name:           model.DisplayNameFromEmail(email),
			Role:           m.RoleFor(email),
			Reputation:     ReputationSeed,
			IsLoggedIn:     true,
			LastVerifiedAt: &now,
		}
		m.users = append(m.users, u)
		m.session = u.ID
		return u, m.persist()
	}

	// Known email: role is stable, only the login state refreshes.
	m.users[i].IsLoggedIn = true
	m.users[i].LastVerifiedAt = &now
	m.session = m.users[i].ID
	return m.users[i], m.persist()
}

// Verify refreshes the last-verified timestamp for the user with the given id.
// Returns false when the id is not in the directory.
func (m *Manager) Verify(userID string) (model.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.findByID(userID)
	if !ok {
		return model.User{}, false, nil
	}

	now := m.now()
	m.users[i].LastVerifiedAt = &now
	return m.users[i], true, m.persist()
}

// Logout clears the logged-in flag on the session user and drops the session.
// Logging out without a session is a no-op.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == "" {
		return nil
	}
	if i, ok := m.findByID(m.session); ok {
		m.users[i].IsLoggedIn = false
	}
	m.session = ""
	return m.persist()
}

// UpdateUser overwrites the directory record with the same id. If the record
// is the session user the session follows automatically (it is a reference).
// Returns false when the id is unknown.
func (m *Manager) UpdateUser(u model.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.findByID(u.ID)
	if !ok {
		return false, nil
	}
	m.users[i] = u
	return true, m.persist()
}

// Current returns a copy of the session user, or nil when anonymous.
func (m *Manager) Current() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == "" {
		return nil
	}
	i, ok := m.findByID(m.session)
	if !ok {
		return nil
	}
	u := m.users[i]
	return &u
}

// Users returns a copy of the directory.
func (m *Manager) Users() []model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.User(nil), m.users...)
}

// IsFresh reports whether the user verified recently enough for gated
// actions: now - lastVerifiedAt < FreshnessWindow, strictly.
func (m *Manager) IsFresh(u model.User) bool {
	if u.LastVerifiedAt == nil {
		return false
	}
	return m.now().Sub(*u.LastVerifiedAt) < FreshnessWindow
}

// CheckPassword implements the simulated credential rule: only directory
// records carrying a hash (the seeded demo admin) have their password
// checked; every other email accepts any password.
func (m *Manager) CheckPassword(email, password string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.findByEmail(model.NormalizeEmail(email))
	if !ok || m.users[i].PasswordHash == "" {
		return true
	}

	match, err := auth.CheckPassword(password, m.users[i].PasswordHash)
	if err != nil {
		slog.Error("password check failed", "email", email, "error", err)
		return false
	}
	return match
}

// persist mirrors the directory and session into the store.
// Callers must hold m.mu.
func (m *Manager) persist() error {
	if err := m.kv.Set(store.KeyUsers, m.users); err != nil {
		return fmt.Errorf("persisting user directory: %w", err)
	}

	if m.session == "" {
		if err := m.kv.Remove(store.KeySession); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		return nil
	}

	i, ok := m.findByID(m.session)
	if !ok {
		return m.kv.Remove(store.KeySession)
	}
	if err := m.kv.Set(store.KeySession, m.users[i]); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

func (m *Manager) findByID(id string) (int, bool) {
	for i := range m.users {
		if m.users[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *Manager) findByEmail(email string) (int, bool) {
	for i := range m.users {
		if m.users[i].Email == email {
			return i, true
		}
	}
	return 0, false
}
