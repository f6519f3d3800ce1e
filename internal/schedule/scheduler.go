// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tomtom215/f1telemetry/internal/backup"
	"github.com/tomtom215/f1telemetry/internal/logging"
)

// Scheduler runs the LatestCache refresh (and, if the backup manager is
// wired in, its upload cadence — see internal/backup) on a gocron
// scheduler, so neither has to run its own timer goroutine.
type Scheduler struct {
	gocron.Scheduler
}

// NewScheduler returns a gocron scheduler; its jobs run once Start is called.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("schedule: create scheduler: %w", err)
	}
	return &Scheduler{Scheduler: s}, nil
}

// RegisterLatestRefresh schedules cache.Refresh to run every interval,
// logging (not failing the whole scheduler) on an error — a missed
// refresh just means the cache serves its previous value a little longer.
func (s *Scheduler) RegisterLatestRefresh(cache *LatestCache, interval time.Duration) error {
	_, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := cache.Refresh(ctx); err != nil {
				logging.Warn().Err(err).Msg("schedule: latest-session refresh failed")
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("schedule: register latest refresh job: %w", err)
	}
	return nil
}

// RegisterBackupUpload schedules mgr.Upload to run every interval,
// followed by mgr.ExpireObjects so retention is enforced right after a
// new snapshot lands. A failed upload or expiry sweep is logged, not
// fatal — the next tick tries again.
func (s *Scheduler) RegisterBackupUpload(mgr *backup.Manager, interval time.Duration) error {
	_, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if _, err := mgr.Upload(ctx); err != nil {
				logging.Warn().Err(err).Msg("schedule: capture backup upload failed")
				return
			}
			if err := mgr.ExpireObjects(ctx); err != nil {
				logging.Warn().Err(err).Msg("schedule: capture backup retention sweep failed")
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("schedule: register backup upload job: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.Scheduler.Start()
}

// Stop waits for running jobs to finish and stops the scheduler.
func (s *Scheduler) Stop() error {
	return s.Scheduler.Shutdown()
}
