// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate decides whether a protected action runs now or waits for
// the caller to authenticate. It parks at most one pending action.
package gate

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/model"
)

// ActionKind names a protected action.
type ActionKind string

const (
	KindVote         ActionKind = "vote"
	KindFlag         ActionKind = "flag"
	KindComment      ActionKind = "comment"
	KindSubmitReport ActionKind = "submit_report"
)

// PendingAction is a tagged union: Kind selects which fields are meaningful.
// Vote and Flag use ReportID; Comment uses ReportID and Text; SubmitReport
// uses Draft.
type PendingAction struct {
	Kind     ActionKind         `json:"kind"`
	ReportID string             `json:"reportId,omitempty"`
	Text     string             `json:"text,omitempty"`
	Draft    *model.ReportDraft `json:"draft,omitempty"`
}

// Outcome is the gate's answer to a Request.
type Outcome string

const (
	// OutcomeExecuted means the action ran immediately.
	OutcomeExecuted Outcome = "executed"
	// OutcomeLoginRequired means the action was parked; the caller must log in.
	OutcomeLoginRequired Outcome = "login_required"
	// OutcomeVerifyRequired means the caller is logged in but the verification
	// is stale; the action was parked pending a fresh one-time code.
	OutcomeVerifyRequired Outcome = "verify_required"
)

// Executor runs gated actions once the gate lets them through.
type Executor interface {
	Vote(reportID string, voter model.User) error
	Flag(reportID string, flagger model.User) error
	Comment(reportID, text string, author model.User) error
	Create(draft model.ReportDraft, author model.User) (model.ScamReport, error)
}

// Gate fronts the executor with the login-and-freshness check. A request
// that cannot run yet replaces any previously parked action: only the most
// recent intent survives the auth detour.
type Gate struct {
	mu       sync.Mutex
	identity *identity.Manager
	exec     Executor
	pending  *PendingAction
}

// New creates a Gate over the identity manager and the action executor.
func New(im *identity.Manager, exec Executor) *Gate {
	return &Gate{identity: im, exec: exec}
}

// Request runs the action immediately when the session user is logged in and
// freshly verified. Otherwise it parks the action (replacing any earlier one)
// and reports what the caller must do first. Votes and flags are community
// signals and bypass the identity check entirely: they execute at once, with
// a zero-value actor when nobody is logged in.
func (g *Gate) Request(action PendingAction) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if action.Kind == KindVote || action.Kind == KindFlag {
		var actor model.User
		if cur := g.identity.Current(); cur != nil {
			actor = *cur
		}
		return OutcomeExecuted, g.execute(action, actor)
	}

	cur := g.identity.Current()
	if cur == nil {
		g.pending = &action
		return OutcomeLoginRequired, nil
	}
	if !g.identity.IsFresh(*cur) {
		g.pending = &action
		return OutcomeVerifyRequired, nil
	}

	return OutcomeExecuted, g.execute(action, *cur)
}

// OnAuthenticated fires after a successful login or code verification. The
// parked action, if any, runs exactly once on behalf of the session user:
// it is cleared before execution so a failing executor cannot replay it.
func (g *Gate) OnAuthenticated() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return false, nil
	}
	action := *g.pending
	g.pending = nil

	cur := g.identity.Current()
	if cur == nil {
		slog.Warn("pending action dropped: no session after authentication", "kind", action.Kind)
		return false, nil
	}

	if err := g.execute(action, *cur); err != nil {
		return false, err
	}
	return true, nil
}

// Dismiss discards the parked action. Called when the user abandons the
// login or verification dialog.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	g.pending = nil
	g.mu.Unlock()
}

// Pending returns a copy of the parked action, or nil.
func (g *Gate) Pending() *PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return nil
	}
	a := *g.pending
	return &a
}

func (g *Gate) execute(action PendingAction, actor model.User) error {
	switch action.Kind {
	case KindVote:
		return g.exec.Vote(action.ReportID, actor)
	case KindFlag:
		return g.exec.Flag(action.ReportID, actor)
	case KindComment:
		return g.exec.Comment(action.ReportID, action.Text, actor)
	case KindSubmitReport:
		if action.Draft == nil {
			return fmt.Errorf("submit action without a draft")
		}
		_, err := g.exec.Create(*action.Draft, actor)
		return err
	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}
