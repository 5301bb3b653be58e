// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"strings"

	"github.com/olegiv/sotorko-go/internal/model"
)

// List returns the reports visible to the viewer, filtered by search query
// and category, in display order. A report is visible when it is approved or
// the viewer holds a privileged role; pending and rejected reports stay
// hidden from regular users and anonymous visitors.
func (r *Repository) List(viewer *model.User, query, category string) []model.ScamReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	privileged := viewer != nil && viewer.IsPrivileged()
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]model.ScamReport, 0, len(r.reports))
	for _, rep := range r.reports {
		if rep.Status != model.StatusApproved && !privileged {
			continue
		}
		if category != "" && category != model.CategoryAll && rep.Category != category {
			continue
		}
		if q != "" && !matchesQuery(rep, q) {
			continue
		}
		out = append(out, rep)
	}
	return out
}

// Queue returns the pending reports for the moderation view.
func (r *Repository) Queue() []model.ScamReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.ScamReport, 0)
	for _, rep := range r.reports {
		if rep.Status == model.StatusPending {
			out = append(out, rep)
		}
	}
	return out
}

// matchesQuery does a case-insensitive substring search over the fields a
// victim would recognize the scammer by.
func matchesQuery(rep model.ScamReport, q string) bool {
	for _, field := range []string{rep.Title, rep.ScammerName, rep.ScammerContact, rep.WhatsappNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
