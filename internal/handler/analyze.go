// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/sotorko-go/internal/analyzer"
)

// AnalyzeHandler serves the optional AI assessment.
type AnalyzeHandler struct {
	analyzer *analyzer.Analyzer
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(a *analyzer.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a}
}

type analyzeRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Analyze handles POST /api/analyze. A failed or unavailable analysis is
// reported as a null assessment with 200; the client submits without it.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assessment, err := h.analyzer.Analyze(r.Context(), req.Description, req.Category)
	if err != nil {
		slog.Info("analysis unavailable", "error", err)
		writeJSONSuccess(w, map[string]any{"assessment": nil})
		return
	}

	writeJSONSuccess(w, map[string]any{"assessment": assessment})
}
