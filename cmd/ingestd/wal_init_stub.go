// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

//go:build !wal

package main

import (
	"context"

	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/publish"
	"github.com/tomtom215/f1telemetry/internal/timing"
	"github.com/tomtom215/f1telemetry/internal/wal"
)

// WALComponents is a stub for builds without WAL support.
type WALComponents struct {
	pub *publish.Publisher
}

// InitWAL returns a components value that publishes directly (no WAL
// durability) when WAL is disabled via build tags.
func InitWAL(_ context.Context, pub *publish.Publisher) (*WALComponents, error) {
	logging.Info().Msg("WAL not available (built without -tags wal), publishing without durability")
	return &WALComponents{pub: pub}, nil
}

// PublishRecord publishes record directly, with no WAL durability.
func (c *WALComponents) PublishRecord(ctx context.Context, record timing.Record) error {
	return c.pub.PublishRecord(ctx, record)
}

// Shutdown does nothing when WAL is disabled.
func (c *WALComponents) Shutdown() {}

// Stats returns empty stats when WAL is disabled.
func (c *WALComponents) Stats() wal.Stats {
	return wal.Stats{}
}
