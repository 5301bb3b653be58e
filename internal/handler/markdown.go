// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous markup from rendered descriptions.
// UGCPolicy allows safe user-generated tags and drops scripts and handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// renderDescriptionHTML converts a report description from markdown to
// sanitized HTML for the detail view. On render failure the raw text is
// sanitized and returned as-is.
func renderDescriptionHTML(description string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(description), &buf); err != nil {
		slog.Warn("markdown render failed", "error", err)
		return htmlSanitizer.Sanitize(description)
	}
	return htmlSanitizer.Sanitize(buf.String())
}
