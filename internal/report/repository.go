// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report holds the scam report collection and its lifecycle:
// submission, moderation, voting, flagging, comments and selection.
package report

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/sotorko-go/internal/model"
	"github.com/olegiv/sotorko-go/internal/store"
)

// Repository owns the in-memory report collection and mirrors every mutation
// to the persistent store. Insertion order is display order, newest first.
//
// Every by-id operation re-resolves the id against the live collection, so a
// caller holding a stale snapshot cannot resurrect deleted state. A missing
// id is a silent no-op.
type Repository struct {
	mu      sync.Mutex
	kv      *store.KV
	reports []model.ScamReport
	// selected is the id of the detail-view report, or "" when none.
	selected string

	onChange func()
	now      func() time.Time // injectable for tests
}

// New creates a Repository hydrated from the store.
func New(kv *store.KV) (*Repository, error) {
	r := &Repository{kv: kv, now: time.Now}
	if err := kv.Get(store.KeyReports, &r.reports); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("hydrating reports: %w", err)
	}
	return r, nil
}

// SetOnChange registers a hook fired after every persisted mutation.
// The dashboard cache hangs its invalidation here.
func (r *Repository) SetOnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Create applies submission defaults to the draft and prepends the new
// report: pending status, medium risk unless the draft carries an assessed
// level, zero counters, no comments.
func (r *Repository) Create(draft model.ReportDraft, author model.User) (model.ScamReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	risk := model.RiskMedium
	if model.IsValidRiskLevel(draft.RiskLevel) {
		risk = draft.RiskLevel
	}

	rep := model.ScamReport{
		ID:             uuid.NewString(),
		Title:          draft.Title,
		ScammerName:    draft.ScammerName,
		ScammerHandle:  draft.ScammerHandle,
		ScammerContact: draft.ScammerContact,
		WhatsappNumber: draft.WhatsappNumber,
		ReporterEmail:  draft.ReporterEmail,
		Platform:       draft.Platform,
		Category:       draft.Category,
		Description:    draft.Description,
		ProofURLs:      append([]string(nil), draft.ProofURLs...),
		Status:         model.StatusPending,
		RiskLevel:      risk,
		ReporterID:     author.ID,
		CreatedAt:      r.now(),
		Comments:       []model.Comment{},
		AISummary:      draft.AISummary,
	}

	r.reports = append([]model.ScamReport{rep}, r.reports...)
	return rep, r.persist()
}

// Approve marks the report approved. Approving an already-approved report
// overwrites the same value; the operation is idempotent.
func (r *Repository) Approve(id string) error {
	return r.setStatus(id, model.StatusApproved)
}

// Reject marks the report rejected. Idempotent like Approve.
func (r *Repository) Reject(id string) error {
	return r.setStatus(id, model.StatusRejected)
}

func (r *Repository) setStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return nil
	}
	r.reports[i].Status = status
	return r.persist()
}

// Vote increments the upvote counter. There is no per-user dedup: the same
// caller voting twice takes the counter to two. Works for anonymous callers.
func (r *Repository) Vote(id string, _ model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return nil
	}
	r.reports[i].Upvotes++
	return r.persist()
}

// Flag increments the flag counter, same rules as Vote.
func (r *Repository) Flag(id string, _ model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return nil
	}
	r.reports[i].Flags++
	return r.persist()
}

// Comment appends a comment with a denormalized author-name snapshot.
// Without an acting user it silently does nothing.
func (r *Repository) Comment(id, text string, author model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if author.ID == "" {
		return nil
	}
	i, ok := r.find(id)
	if !ok {
		return nil
	}

	r.reports[i].Comments = append(r.reports[i].Comments, model.Comment{
		ID:        uuid.NewString(),
		UserID:    author.ID,
		UserName:  author.Name,
		Text:      text,
		CreatedAt: r.now(),
	})
	return r.persist()
}

// Delete removes the report. Deleting the selected report clears the selection.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return nil
	}
	r.reports = append(r.reports[:i], r.reports[i+1:]...)
	if r.selected == id {
		r.selected = ""
	}
	return r.persist()
}

// Select makes the report the detail-view selection.
// Returns false when the id is unknown; the selection is left untouched.
func (r *Repository) Select(id string) (model.ScamReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return model.ScamReport{}, false
	}
	r.selected = id
	return r.reports[i], true
}

// Deselect clears the detail-view selection.
func (r *Repository) Deselect() {
	r.mu.Lock()
	r.selected = ""
	r.mu.Unlock()
}

// Selected returns the current record of the selected report, or nil. The
// selection is an id reference, so mutations are reflected automatically.
func (r *Repository) Selected() *model.ScamReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selected == "" {
		return nil
	}
	i, ok := r.find(r.selected)
	if !ok {
		return nil
	}
	rep := r.reports[i]
	return &rep
}

// Get returns the report with the given id.
func (r *Repository) Get(id string) (model.ScamReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.find(id)
	if !ok {
		return model.ScamReport{}, false
	}
	return r.reports[i], true
}

// Len reports how many reports are held, regardless of status.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// persist mirrors the collection into the store and fires the change hook.
// Callers must hold r.mu.
func (r *Repository) persist() error {
	if err := r.kv.Set(store.KeyReports, r.reports); err != nil {
		return fmt.Errorf("persisting reports: %w", err)
	}
	if r.onChange != nil {
		r.onChange()
	}
	return nil
}

func (r *Repository) find(id string) (int, bool) {
	for i := range r.reports {
		if r.reports[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
