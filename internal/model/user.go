// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, ScamReport, Comment, and the action/role enumerations.
package model

import (
	"strings"
	"time"
)

// User roles, in ascending order of privilege.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleUser, RoleModerator, RoleAdmin}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a record in the community directory. Exactly one User exists per
// normalized email. The role is assigned at first login and is stable
// afterwards unless an admin edits it.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Reputation     int        `json:"reputation"`
	IsLoggedIn     bool       `json:"isLoggedIn"`
	LastVerifiedAt *time.Time `json:"lastVerifiedAt,omitempty"`
	Whatsapp       string     `json:"whatsapp,omitempty"`

	// PasswordHash is set only for seeded demo accounts whose password is
	// actually checked. It is part of the persisted directory blob but must
	// never leave the process; use Public before serializing to a client.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsPrivileged returns true for moderators and admins.
func (u *User) IsPrivileged() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// Public returns a copy of the user safe for client serialization.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail canonicalizes an email address for use as a directory key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayNameFromEmail derives a display name from the email local part,
// capitalizing the first letter ("jane.doe@x.com" -> "Jane.doe").
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	if local == "" {
		return "Anonymous"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
