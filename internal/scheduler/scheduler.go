// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic housekeeping jobs.
package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a named periodic task.
type Job struct {
	Name     string
	Schedule string // standard 5-field cron expression
	Run      func()
}

// Scheduler wraps a cron runner with named job registration.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	jobs   []Job
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Schedule, func() {
		s.logger.Debug("running scheduled job", "job", job.Name)
		job.Run()
	})
	if err != nil {
		return fmt.Errorf("registering job %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop waits for running jobs to finish, then stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
