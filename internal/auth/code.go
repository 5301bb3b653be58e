// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// CodeTTL is how long an issued one-time code stays valid.
const CodeTTL = 10 * time.Minute

// issuedCode tracks one outstanding code for an email.
type issuedCode struct {
	code      string
	expiresAt time.Time
}

// CodeIssuer generates and checks the simulated one-time codes. The code is
// handed back to the same client that requested it (the "inbox" notification);
// it is self-issued and self-checked, which is the point of the demo flow.
type CodeIssuer struct {
	mu    sync.Mutex
	codes map[string]issuedCode
	ttl   time.Duration

	now func() time.Time // injectable for tests
}

// NewCodeIssuer creates a code issuer with the default TTL.
func NewCodeIssuer() *CodeIssuer {
	return &CodeIssuer{
		codes: make(map[string]issuedCode),
		ttl:   CodeTTL,
		now:   time.Now,
	}
}

// Issue generates a fresh 6-digit code for email, replacing any outstanding one.
func (c *CodeIssuer) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	c.mu.Lock()
	c.codes[email] = issuedCode{code: code, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return code, nil
}

// Verify checks a submitted code against the outstanding one for email.
// A matching code is consumed; a mismatch leaves it in place for retry
// (there is deliberately no attempt counter or lockout).
func (c *CodeIssuer) Verify(email, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	issued, ok := c.codes[email]
	if !ok || c.now().After(issued.expiresAt) {
		return false
	}
	if issued.code != code {
		return false
	}

	delete(c.codes, email)
	return true
}

// Prune drops expired codes. Called periodically by the scheduler.
func (c *CodeIssuer) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for email, issued := range c.codes {
		if now.After(issued.expiresAt) {
			delete(c.codes, email)
			removed++
		}
	}
	return removed
}

// Outstanding reports how many unexpired codes are held.
func (c *CodeIssuer) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.codes)
}
