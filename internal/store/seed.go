// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/model"
)

// Default demo accounts. The admin password is the only credential the
// application ever checks; every other email logs in with any password.
const (
	DefaultAdminEmail     = "admin@sotorko.com"
	DefaultAdminName      = "Super Admin"
	DefaultAdminPassword  = "Admin786@"
	DefaultModeratorEmail = "mod@sotorko.com"
	DefaultModeratorName  = "Head Moderator"
)

// Seed creates initial data in the store when the corresponding keys are
// absent. Safe to call on every boot.
func Seed(kv *KV, adminPassword string, doSeed bool) error {
	if !doSeed {
		return nil
	}

	if err := seedUsers(kv, adminPassword); err != nil {
		return err
	}
	return seedReports(kv)
}

func seedUsers(kv *KV, adminPassword string) error {
	if has, err := kv.Has(KeyUsers); err != nil {
		return fmt.Errorf("checking user directory: %w", err)
	} else if has {
		slog.Info("user directory already exists, skipping seed")
		return nil
	}

	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	users := []model.User{
		{
			ID:           uuid.NewString(),
			Email:        DefaultAdminEmail,
			Name:         DefaultAdminName,
			Role:         model.RoleAdmin,
			Reputation:   100,
			PasswordHash: passwordHash,
		},
		{
			ID:         uuid.NewString(),
			Email:      DefaultModeratorEmail,
			Name:       DefaultModeratorName,
			Role:       model.RoleModerator,
			Reputation: 50,
		},
	}

	if err := kv.Set(KeyUsers, users); err != nil {
		return fmt.Errorf("seeding user directory: %w", err)
	}

	slog.Info("seeded default users",
		"admin", DefaultAdminEmail,
		"moderator", DefaultModeratorEmail,
	)
	return nil
}

func seedReports(kv *KV) error {
	if has, err := kv.Has(KeyReports); err != nil {
		return fmt.Errorf("checking reports: %w", err)
	} else if has {
		return nil
	}

	now := time.Now()
	reports := []model.ScamReport{
		{
			ID:             uuid.NewString(),
			Title:          "Fake Crypto Recovery Agent",
			ScammerName:    "Blockchain Specialist Alex",
			ScammerHandle:  "@alex_recovery_pro",
			ScammerContact: "alex@block-recovery.com",
			Platform:       "Telegram",
			Category:       "Crypto Investment",
			Description: "Claimed he could recover my lost funds from a previous scam " +
				"if I paid an upfront \"gas fee\" of $500. After payment, he blocked me.",
			ProofURLs: []string{},
			Status:    model.StatusApproved,
			RiskLevel: model.RiskHigh,
			Upvotes:   12,
			CreatedAt: now.Add(-24 * time.Hour),
			Comments: []model.Comment{
				{
					ID:        uuid.NewString(),
					UserName:  "Jane Doe",
					Text:      "This same guy contacted me yesterday! Be careful.",
					CreatedAt: now.Add(-12 * time.Hour),
				},
			},
			AISummary: "This appears to be a classic \"Recovery Room\" scam targeting previous victims of fraud.",
		},
		{
			ID:             uuid.NewString(),
			Title:          "Phishing Email - Netflix Payment",
			ScammerContact: "support@nefflix-billing.com",
			Platform:       "Email",
			Category:       "Phishing",
			Description: "Received an email saying my membership was cancelled and I need " +
				"to update my credit card info on a fake site.",
			ProofURLs: []string{},
			Status:    model.StatusPending,
			RiskLevel: model.RiskMedium,
			Upvotes:   5,
			CreatedAt: now.Add(-48 * time.Hour),
			Comments:  []model.Comment{},
		},
	}

	if err := kv.Set(KeyReports, reports); err != nil {
		return fmt.Errorf("seeding reports: %w", err)
	}

	slog.Info("seeded demo reports", "count", len(reports))
	return nil
}
