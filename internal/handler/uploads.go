// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/sotorko-go/internal/imaging"
)

const maxUploadBytes = 10 << 20 // 10 MB

// UploadsHandler accepts proof images and stores their normalized form.
type UploadsHandler struct {
	normalizer *imaging.Normalizer
}

// NewUploadsHandler creates a new UploadsHandler.
func NewUploadsHandler(n *imaging.Normalizer) *UploadsHandler {
	return &UploadsHandler{normalizer: n}
}

// Upload handles POST /api/uploads (multipart field "file").
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.normalizer.NormalizeAndSave(file, header.Filename)
	if err != nil {
		slog.Warn("upload rejected", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, "could not process image")
		return
	}

	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"url":    res.WebPath,
		"width":  res.Width,
		"height": res.Height,
		"size":   res.Size,
	})
}
