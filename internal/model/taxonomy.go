// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// CategoryAll is the sentinel category filter matching every category.
const CategoryAll = "All"

// ScamCategories is the fixed list of report categories.
var ScamCategories = []string{
	"Phishing",
	"Crypto Investment",
	"Romance Scam",
	"Marketplace Fraud",
	"Tech Support",
	"Impersonation",
	"Employment Scam",
	"Other",
}

// Platforms is the fixed suggestion list for the platform field. The field
// itself stays free-form; submissions outside this list are accepted.
var Platforms = []string{
	"WhatsApp",
	"Telegram",
	"Facebook",
	"Instagram",
	"X (Twitter)",
	"Discord",
	"LinkedIn",
	"Email",
	"Website",
	"Phone/SMS",
	"Other",
}

// IsKnownCategory reports whether category is on the fixed list.
func IsKnownCategory(category string) bool {
	for _, c := range ScamCategories {
		if c == category {
			return true
		}
	}
	return false
}
