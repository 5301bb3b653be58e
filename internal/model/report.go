// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Report lifecycle statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Risk levels assigned to a report, either by default or by AI assessment.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// ValidRiskLevels contains all valid risk levels.
var ValidRiskLevels = []string{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// IsValidRiskLevel reports whether level is a known risk level.
func IsValidRiskLevel(level string) bool {
	for _, l := range ValidRiskLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Comment is owned exclusively by its parent report. The author name is a
// denormalized snapshot taken when the comment is posted.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScamReport is a community-submitted scam incident. Insertion order is the
// display order (most recent first); CreatedAt is informational.
type ScamReport struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ScammerName    string    `json:"scammerName,omitempty"`
	ScammerHandle  string    `json:"scammerHandle,omitempty"`
	ScammerContact string    `json:"scammerContact,omitempty"`
	WhatsappNumber string    `json:"whatsappNumber,omitempty"`
	ReporterEmail  string    `json:"reporterEmail,omitempty"`
	Platform       string    `json:"platform"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	ProofURLs      []string  `json:"proofUrls"`
	Status         string    `json:"status"`
	RiskLevel      string    `json:"riskLevel"`
	Upvotes        int       `json:"upvotes"`
	Flags          int       `json:"flags"`
	ReporterID     string    `json:"reporterId"`
	CreatedAt      time.Time `json:"createdAt"`
	Comments       []Comment `json:"comments"`
	AISummary      string    `json:"aiSummary,omitempty"`
}

// ReportDraft is the submission payload before defaults are applied.
type ReportDraft struct {
	Title          string   `json:"title"`
	ScammerName    string   `json:"scammerName,omitempty"`
	ScammerHandle  string   `json:"scammerHandle,omitempty"`
	ScammerContact string   `json:"scammerContact,omitempty"`
	WhatsappNumber string   `json:"whatsappNumber,omitempty"`
	ReporterEmail  string   `json:"reporterEmail,omitempty"`
	Platform       string   `json:"platform"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	ProofURLs      []string `json:"proofUrls,omitempty"`
	RiskLevel      string   `json:"riskLevel,omitempty"`
	AISummary      string   `json:"aiSummary,omitempty"`
}
