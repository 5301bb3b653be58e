// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/model"
)

// AdminHandler serves the user directory view. Admin only.
type AdminHandler struct {
	identity *identity.Manager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(im *identity.Manager) *AdminHandler {
	return &AdminHandler{identity: im}
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter) bool {
	cur := h.identity.Current()
	if cur == nil || !cur.IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, _ *http.Request) {
	if !h.requireAdmin(w) {
		return
	}

	users := h.identity.Users()
	public := make([]model.User, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}

	writeJSONSuccess(w, map[string]any{
		"users": public,
		"total": len(public),
	})
}

type updateUserRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Reputation *int    `json:"reputation"`
	Whatsapp   *string `json:"whatsapp"`
}

// UpdateUser handles PUT /api/admin/users/{id}: partial update of the
// fields an admin may edit. Deleting users is intentionally not offered.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != nil && !model.IsValidRole(*req.Role) {
		writeJSONError(w, http.StatusUnprocessableEntity, "unknown role")
		return
	}

	id := chi.URLParam(r, "id")
	target, ok := h.findUser(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.Reputation != nil {
		target.Reputation = *req.Reputation
	}
	if req.Whatsapp != nil {
		target.Whatsapp = *req.Whatsapp
	}

	ok, err := h.identity.UpdateUser(target)
	if err != nil {
		slog.Error("updating user", "user", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not update user")
		return
	}
	if !ok {
		writeJSONError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSONSuccess(w, map[string]any{"user": target.Public()})
}

func (h *AdminHandler) findUser(id string) (model.User, bool) {
	for _, u := range h.identity.Users() {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}
