// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

//go:build wal

package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/publish"
	"github.com/tomtom215/f1telemetry/internal/timing"
	"github.com/tomtom215/f1telemetry/internal/wal"
)

// WALComponents holds WAL-related components for lifecycle management.
// wal is nil when WAL_ENABLED=false even in a -tags wal build, in which
// case PublishRecord falls back to publishing through pub directly.
type WALComponents struct {
	wal       *wal.BadgerWAL
	retryLoop *wal.RetryLoop
	compactor *wal.Compactor
	publisher *walPublisher
	pub       *publish.Publisher
}

// walPublisher adapts an internal/publish.Publisher to wal.Publisher,
// unmarshaling each recovered entry's payload back into the timing.Record
// it was written as.
type walPublisher struct {
	pub *publish.Publisher
}

func (p *walPublisher) PublishEntry(ctx context.Context, entry *wal.Entry) error {
	var record timing.Record
	if err := json.Unmarshal(entry.Payload, &record); err != nil {
		return fmt.Errorf("wal publisher: unmarshal entry %s: %w", entry.ID, err)
	}
	return p.pub.PublishRecord(ctx, record)
}

// InitWAL opens the write-ahead log fronting pub, recovers any entries left
// pending from a previous run, and starts the background retry loop and
// compactor. If WAL_ENABLED=false, it returns components that publish
// directly through pub with no durability.
func InitWAL(ctx context.Context, pub *publish.Publisher) (*WALComponents, error) {
	cfg := wal.LoadConfig()

	if !cfg.Enabled {
		logging.Warn().Msg("WAL disabled (WAL_ENABLED=false). Records may be lost if NATS publish fails.")
		return &WALComponents{pub: pub}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("Initializing WAL")

	w, err := wal.Open(&cfg)
	if err != nil {
		return nil, fmt.Errorf("open WAL: %w", err)
	}

	walPub := &walPublisher{pub: pub}

	result, err := w.RecoverPending(ctx, walPub)
	if err != nil {
		logging.Warn().Err(err).Msg("WAL recovery error")
	} else if result != nil && result.TotalPending > 0 {
		logging.Info().
			Int("total", result.TotalPending).
			Int("recovered", result.Recovered).
			Int("failed", result.Failed).
			Msg("WAL recovery completed")
	}

	retryLoop := wal.NewRetryLoop(w, walPub)
	if err := retryLoop.Start(ctx); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("start WAL retry loop: %w", err)
	}

	compactor := wal.NewCompactor(w)
	if err := compactor.Start(ctx); err != nil {
		retryLoop.Stop()
		_ = w.Close()
		return nil, fmt.Errorf("start WAL compactor: %w", err)
	}

	logging.Info().Msg("WAL initialized")
	return &WALComponents{wal: w, retryLoop: retryLoop, compactor: compactor, publisher: walPub, pub: pub}, nil
}

// PublishRecord writes record to the WAL, attempts an immediate publish, and
// confirms the WAL entry on success. A failed publish leaves the entry
// pending for the background retry loop — the caller sees no error, since
// the record is already durably queued. If the WAL itself is unavailable
// (WAL_ENABLED=false), it publishes directly with no durability.
func (c *WALComponents) PublishRecord(ctx context.Context, record timing.Record) error {
	if c.wal == nil {
		return c.pub.PublishRecord(ctx, record)
	}

	entryID, err := c.wal.Write(ctx, record)
	if err != nil {
		return fmt.Errorf("wal write: %w", err)
	}
	if err := c.publisher.pub.PublishRecord(ctx, record); err != nil {
		logging.Warn().Err(err).Str("entry_id", entryID).Msg("Publish failed, leaving WAL entry for retry")
		return nil
	}
	return c.wal.Confirm(ctx, entryID)
}

// Shutdown gracefully stops all WAL components.
func (c *WALComponents) Shutdown() {
	if c == nil {
		return
	}
	if c.retryLoop != nil {
		c.retryLoop.Stop()
	}
	if c.compactor != nil {
		c.compactor.Stop()
	}
	if c.wal != nil {
		if err := c.wal.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing WAL")
		}
	}
}

// Stats returns current WAL statistics.
func (c *WALComponents) Stats() wal.Stats {
	if c == nil || c.wal == nil {
		return wal.Stats{}
	}
	return c.wal.Stats()
}
