// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"testing"
	"time"
)

func TestCaptureKey_NestsByDate(t *testing.T) {
	ts := time.Date(2023, 5, 5, 13, 4, 5, 0, time.UTC)
	key := captureKey("raw-captures", ts)
	want := "raw-captures/2023/05/05/20230505-130405.jsonl"
	if key != want {
		t.Errorf("captureKey = %q, want %q", key, want)
	}
}

func TestMatchesListOptions(t *testing.T) {
	obj := Object{Key: "a", LastModified: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}

	if !matchesListOptions(obj, ListOptions{}) {
		t.Error("zero-value ListOptions should match everything")
	}
	if matchesListOptions(obj, ListOptions{Before: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}) {
		t.Error("object modified exactly at the cutoff should not match Before")
	}
	if !matchesListOptions(obj, ListOptions{Before: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}) {
		t.Error("object modified before the cutoff should match")
	}
}
