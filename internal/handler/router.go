// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/sotorko-go/internal/middleware"
)

// Deps bundles the handlers the router mounts.
type Deps struct {
	Auth    *AuthHandler
	Reports *ReportsHandler
	Admin   *AdminHandler
	Analyze *AnalyzeHandler
	Uploads *UploadsHandler
	Health  *HealthHandler

	// AuthLimiter fronts the auth routes; nil disables rate limiting.
	AuthLimiter *middleware.RateLimiter

	// UploadsDir is served statically under /uploads/.
	UploadsDir string
}

// NewRouter builds the chi router with one route group per view.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", d.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware())
			}
			r.Post("/login", d.Auth.Login)
			r.Post("/verify", d.Auth.Verify)
			r.Post("/stepup", d.Auth.StepUp)
			r.Post("/dismiss", d.Auth.Dismiss)
			r.Post("/logout", d.Auth.Logout)
			r.Get("/session", d.Auth.Session)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", d.Reports.List)
			r.Post("/", d.Reports.Create)
			r.Post("/deselect", d.Reports.Deselect)
			r.Get("/{id}", d.Reports.Detail)
			r.Post("/{id}/vote", d.Reports.Vote)
			r.Post("/{id}/flag", d.Reports.Flag)
			r.Post("/{id}/comments", d.Reports.Comment)
			r.Post("/{id}/approve", d.Reports.Approve)
			r.Post("/{id}/reject", d.Reports.Reject)
			r.Delete("/{id}", d.Reports.Delete)
		})

		r.Get("/moderation", d.Reports.Queue)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", d.Admin.Users)
			r.Put("/users/{id}", d.Admin.UpdateUser)
		})

		r.Post("/analyze", d.Analyze.Analyze)
		r.Post("/uploads", d.Uploads.Upload)
	})

	if d.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return r
}
