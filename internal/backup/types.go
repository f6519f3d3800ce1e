// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import "time"

// Object describes one uploaded capture snapshot.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListOptions filters Manager.ListObjects.
type ListOptions struct {
	// Before, if set, excludes objects last modified at or after it.
	Before time.Time
	// Limit caps the number of objects returned; 0 means unlimited.
	Limit int
}
