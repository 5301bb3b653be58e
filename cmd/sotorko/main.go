// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/sotorko-go/internal/analyzer"
	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/cache"
	"github.com/olegiv/sotorko-go/internal/config"
	"github.com/olegiv/sotorko-go/internal/gate"
	"github.com/olegiv/sotorko-go/internal/handler"
	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/imaging"
	"github.com/olegiv/sotorko-go/internal/middleware"
	"github.com/olegiv/sotorko-go/internal/report"
	"github.com/olegiv/sotorko-go/internal/scheduler"
	"github.com/olegiv/sotorko-go/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Sotorko - community scam report database\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_DB_PATH          SQLite database path (default: ./data/sotorko.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_UPLOADS_DIR      Proof image directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_OPENAI_API_KEY   Enables AI risk assessment (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SOTORKO_REDIS_URL        Redis URL for the dashboard cache (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("sotorko %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	kv := store.NewKV(db)
	if err := store.Seed(kv, cfg.AdminPassword, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	im, err := identity.New(kv, identity.Config{
		AdminEmail:     cfg.AdminEmail,
		ModeratorEmail: cfg.ModeratorEmail,
	})
	if err != nil {
		return fmt.Errorf("initializing identity manager: %w", err)
	}

	repo, err := report.New(kv)
	if err != nil {
		return fmt.Errorf("initializing report repository: %w", err)
	}

	g := gate.New(im, repo)
	codes := auth.NewCodeIssuer()

	dashCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	})
	defer func() {
		if err := dashCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	aiAnalyzer := analyzer.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if aiAnalyzer.Enabled() {
		slog.Info("AI assessment enabled", "model", cfg.OpenAIModel)
	} else {
		slog.Info("AI assessment disabled: no API key")
	}

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	sched := scheduler.New(logger)
	if err := sched.Register(scheduler.Job{
		Name:     "prune-expired-codes",
		Schedule: "*/5 * * * *",
		Run: func() {
			if removed := codes.Prune(); removed > 0 {
				slog.Debug("pruned expired codes", "count", removed)
			}
			authLimiter.Prune(10000)
		},
	}); err != nil {
		return fmt.Errorf("registering scheduler job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := handler.NewRouter(handler.Deps{
		Auth:        handler.NewAuthHandler(im, codes, g),
		Reports:     handler.NewReportsHandler(repo, g, im, dashCache),
		Admin:       handler.NewAdminHandler(im),
		Analyze:     handler.NewAnalyzeHandler(aiAnalyzer),
		Uploads:     handler.NewUploadsHandler(imaging.NewNormalizer(cfg.UploadsDir)),
		Health:      handler.NewHealthHandler(db),
		AuthLimiter: authLimiter,
		UploadsDir:  cfg.UploadsDir,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
