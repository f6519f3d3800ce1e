// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package timing

import (
	"testing"
	"time"
)

func TestFormatKey_MixedParts(t *testing.T) {
	got := FormatKey(1219, 9159, "44", 12)
	want := "1219_9159_44_12"
	if got != want {
		t.Errorf("FormatKey() = %q, want %q", got, want)
	}
}

func TestFormatKey_TimeReducesToEpochMillis(t *testing.T) {
	ts := time.Date(2023, 5, 7, 13, 0, 0, 0, time.UTC)
	got := FormatKey(9159, ts)
	want := FormatKey(9159, ts.UnixMilli())
	if got != want {
		t.Errorf("time.Time and its own UnixMilli() must format identically, got %q vs %q", got, want)
	}
}

func TestFormatKey_NilTimePointer(t *testing.T) {
	var ts *time.Time
	got := FormatKey(9159, ts)
	if got != "9159_" {
		t.Errorf("nil *time.Time should format as empty, got %q", got)
	}
}

func TestFormatKey_SameLogicalValueCollides(t *testing.T) {
	a := FormatKey(9159, "44", 3.0)
	b := FormatKey(9159, "44", float64(3))
	if a != b {
		t.Errorf("equal float64 values must collide regardless of literal form: %q vs %q", a, b)
	}
}
