// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/f1telemetry/internal/logging"
)

// ExpireObjects deletes every uploaded snapshot older than cfg.Retention.
// It keeps going after a single delete failure so one bad object doesn't
// block the rest of the sweep, returning the first error encountered (if
// any) after the sweep finishes.
func (m *Manager) ExpireObjects(ctx context.Context) error {
	if m.cfg.Retention <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-m.cfg.Retention)
	expired, err := m.ListObjects(ctx, ListOptions{Before: cutoff})
	if err != nil {
		return fmt.Errorf("backup: list expired objects: %w", err)
	}

	var firstErr error
	for _, obj := range expired {
		if err := m.DeleteObject(ctx, obj.Key); err != nil {
			logging.Warn().Err(err).Str("key", obj.Key).Msg("Failed to expire backup object")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logging.Info().Str("key", obj.Key).Time("last_modified", obj.LastModified).Msg("Expired backup object")
	}
	return firstErr
}
