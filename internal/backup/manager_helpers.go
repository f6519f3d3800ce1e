// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Stats summarizes the uploaded snapshots currently in the bucket.
type Stats struct {
	Count          int
	TotalSizeBytes int64
}

// GetStats lists every object under cfg.Prefix and summarizes them. It
// makes no attempt to cache: a periodic upload/retention cycle already
// calls ListObjects, and callers needing stats on demand (e.g. a health
// endpoint) are infrequent enough not to warrant one.
func (m *Manager) GetStats(ctx context.Context) (Stats, error) {
	objects, err := m.ListObjects(ctx, ListOptions{})
	if err != nil {
		return Stats{}, fmt.Errorf("backup: stats: %w", err)
	}
	stats := Stats{Count: len(objects)}
	for _, obj := range objects {
		stats.TotalSizeBytes += obj.Size
	}
	return stats, nil
}

func newReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
