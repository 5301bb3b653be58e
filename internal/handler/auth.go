// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/gate"
	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/model"
)

// AuthHandler drives the simulated email, password and one-time-code flow.
//
// The code is returned in the login response: this instance plays both the
// mail service and the inbox. That channel is a deliberate property of the
// product, not an oversight.
type AuthHandler struct {
	identity *identity.Manager
	codes    *auth.CodeIssuer
	gate     *gate.Gate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(im *identity.Manager, codes *auth.CodeIssuer, g *gate.Gate) *AuthHandler {
	return &AuthHandler{identity: im, codes: codes, gate: g}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A correct password (only the seeded
// admin has one to check) issues a one-time code and hands it straight back.
// A wrong password is an error and nothing more; there is no lockout.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := model.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeJSONError(w, http.StatusUnprocessableEntity, "a valid email is required")
		return
	}

	if !h.identity.CheckPassword(email, req.Password) {
		writeJSONError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	code, err := h.codes.Issue(email)
	if err != nil {
		slog.Error("issuing one-time code", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not issue verification code")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"message": "verification code sent",
		"code":    code, // simulated inbox
	})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Verify handles POST /api/auth/verify. A matching code logs the email in
// (or refreshes the existing session user) and runs the pending gated
// action exactly once.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := model.NormalizeEmail(req.Email)
	if !h.codes.Verify(email, strings.TrimSpace(req.Code)) {
		writeJSONError(w, http.StatusUnauthorized, "invalid or expired code")
		return
	}

	user, err := h.identity.Login(email)
	if err != nil {
		slog.Error("logging in after verification", "email", email, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "login failed")
		return
	}

	executed, err := h.gate.OnAuthenticated()
	if err != nil {
		slog.Error("executing pending action", "error", err)
	}

	writeJSONSuccess(w, map[string]any{
		"user":            user.Public(),
		"pendingExecuted": executed,
	})
}

// StepUp handles POST /api/auth/stepup: a logged-in user whose verification
// went stale asks for a fresh code. The code goes through the same Verify
// endpoint.
func (h *AuthHandler) StepUp(w http.ResponseWriter, _ *http.Request) {
	cur := h.identity.Current()
	if cur == nil {
		writeJSONError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	code, err := h.codes.Issue(cur.Email)
	if err != nil {
		slog.Error("issuing step-up code", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not issue verification code")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"message": "verification code sent",
		"email":   cur.Email,
		"code":    code, // simulated inbox
	})
}

// Dismiss handles POST /api/auth/dismiss: the user walked away from the
// login dialog, so the parked action is dropped.
func (h *AuthHandler) Dismiss(w http.ResponseWriter, _ *http.Request) {
	h.gate.Dismiss()
	writeJSONSuccess(w, nil)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	if err := h.identity.Logout(); err != nil {
		slog.Error("logging out", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSONSuccess(w, nil)
}

// Session handles GET /api/auth/session: the current user (or null) and
// whether an action is parked behind the gate.
func (h *AuthHandler) Session(w http.ResponseWriter, _ *http.Request) {
	data := map[string]any{
		"user":          nil,
		"pendingAction": h.gate.Pending(),
	}
	if cur := h.identity.Current(); cur != nil {
		data["user"] = cur.Public()
		data["fresh"] = h.identity.IsFresh(*cur)
	}
	writeJSONSuccess(w, data)
}
