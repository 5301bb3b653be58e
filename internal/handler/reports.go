// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sotorko-go/internal/cache"
	"github.com/olegiv/sotorko-go/internal/gate"
	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/model"
	"github.com/olegiv/sotorko-go/internal/report"
)

// ReportsHandler serves the dashboard, detail and submission routes.
type ReportsHandler struct {
	repo     *report.Repository
	gate     *gate.Gate
	identity *identity.Manager
	cache    cache.Cache
}

// NewReportsHandler creates a ReportsHandler and hooks cache invalidation
// into the repository's change feed.
func NewReportsHandler(repo *report.Repository, g *gate.Gate, im *identity.Manager, c cache.Cache) *ReportsHandler {
	h := &ReportsHandler{repo: repo, gate: g, identity: im, cache: c}
	repo.SetOnChange(h.invalidate)
	return h
}

func (h *ReportsHandler) invalidate() {
	if err := h.cache.Clear(context.Background()); err != nil {
		slog.Warn("clearing dashboard cache", "error", err)
	}
}

// List handles GET /api/reports?q=&category=. Responses are cached per
// viewer role, query and category; any report mutation clears the cache.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	viewer := h.identity.Current()

	role := "anonymous"
	if viewer != nil {
		role = viewer.Role
	}
	key := "dashboard:" + role + "|" + strings.ToLower(q) + "|" + category

	if cached, err := h.cache.Get(r.Context(), key); err == nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	reports := h.repo.List(viewer, q, category)
	body, err := json.Marshal(map[string]any{
		"success": true,
		"reports": reports,
		"total":   len(reports),
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "encoding reports")
		return
	}

	if err := h.cache.Set(r.Context(), key, body, 0); err != nil {
		slog.Warn("caching dashboard listing", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Detail handles GET /api/reports/{id}: selects the report and returns it
// with the sanitized HTML rendering of its description.
func (h *ReportsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rep, ok := h.repo.Select(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"report":          rep,
		"descriptionHtml": renderDescriptionHTML(rep.Description),
	})
}

// Deselect handles POST /api/reports/deselect.
func (h *ReportsHandler) Deselect(w http.ResponseWriter, _ *http.Request) {
	h.repo.Deselect()
	writeJSONSuccess(w, nil)
}

// Create handles POST /api/reports. Submission is gated: without a fresh
// session the draft is parked and the outcome tells the client which auth
// step comes next.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft model.ReportDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Description) == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "title and description are required")
		return
	}

	outcome, err := h.gate.Request(gate.PendingAction{Kind: gate.KindSubmitReport, Draft: &draft})
	if err != nil {
		slog.Error("submitting report", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not submit report")
		return
	}

	status := http.StatusOK
	if outcome == gate.OutcomeExecuted {
		status = http.StatusCreated
	}
	writeJSONStatus(w, status, map[string]any{"outcome": outcome})
}

// Vote handles POST /api/reports/{id}/vote. Votes are immediate and work
// for anonymous callers; no session is created.
func (h *ReportsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, gate.KindVote)
}

// Flag handles POST /api/reports/{id}/flag, same rules as Vote.
func (h *ReportsHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, gate.KindFlag)
}

func (h *ReportsHandler) counter(w http.ResponseWriter, r *http.Request, kind gate.ActionKind) {
	id := chi.URLParam(r, "id")

	if _, err := h.gate.Request(gate.PendingAction{Kind: kind, ReportID: id}); err != nil {
		slog.Error("updating report counter", "report", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not update report")
		return
	}

	data := map[string]any{}
	if rep, ok := h.repo.Get(id); ok {
		data["report"] = rep
	}
	writeJSONSuccess(w, data)
}

type commentRequest struct {
	Text string `json:"text"`
}

// Comment handles POST /api/reports/{id}/comments. Commenting is gated.
func (h *ReportsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "comment text is required")
		return
	}

	outcome, err := h.gate.Request(gate.PendingAction{Kind: gate.KindComment, ReportID: id, Text: req.Text})
	if err != nil {
		slog.Error("posting comment", "report", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not post comment")
		return
	}

	writeJSONSuccess(w, map[string]any{"outcome": outcome})
}

// Approve handles POST /api/reports/{id}/approve (moderator or admin).
func (h *ReportsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.repo.Approve)
}

// Reject handles POST /api/reports/{id}/reject (moderator or admin).
func (h *ReportsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.repo.Reject)
}

// Delete handles DELETE /api/reports/{id} (moderator or admin).
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.repo.Delete)
}

func (h *ReportsHandler) moderate(w http.ResponseWriter, r *http.Request, op func(string) error) {
	cur := h.identity.Current()
	if cur == nil || !cur.IsPrivileged() {
		writeJSONError(w, http.StatusForbidden, "moderator role required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := op(id); err != nil {
		slog.Error("moderating report", "report", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not update report")
		return
	}
	writeJSONSuccess(w, nil)
}

// Queue handles GET /api/moderation: the pending queue for privileged users.
func (h *ReportsHandler) Queue(w http.ResponseWriter, _ *http.Request) {
	cur := h.identity.Current()
	if cur == nil || !cur.IsPrivileged() {
		writeJSONError(w, http.StatusForbidden, "moderator role required")
		return
	}

	queue := h.repo.Queue()
	writeJSONSuccess(w, map[string]any{
		"reports": queue,
		"total":   len(queue),
	})
}
