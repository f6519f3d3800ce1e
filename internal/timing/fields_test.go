// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package timing

import "testing"

func TestFloat_AcceptsNumberAndNumericString(t *testing.T) {
	m := map[string]any{"a": 3.5, "b": "7.25", "c": "not a number"}
	if v, ok := Float(m, "a"); !ok || v != 3.5 {
		t.Errorf("Float(a) = %v, %v", v, ok)
	}
	if v, ok := Float(m, "b"); !ok || v != 7.25 {
		t.Errorf("Float(b) = %v, %v", v, ok)
	}
	if _, ok := Float(m, "c"); ok {
		t.Error("Float(c) should fail on a non-numeric string")
	}
	if _, ok := Float(m, "missing"); ok {
		t.Error("Float(missing) should fail on an absent key")
	}
}

func TestParseGMTOffset(t *testing.T) {
	cases := []struct {
		in      string
		wantSec float64
	}{
		{"+01:00:00", 3600},
		{"-05:00:00", -18000},
		{"", 0},
		{"+00:30:00", 1800},
	}
	for _, c := range cases {
		d, err := ParseGMTOffset(c.in)
		if err != nil {
			t.Fatalf("ParseGMTOffset(%q): %v", c.in, err)
		}
		if d.Seconds() != c.wantSec {
			t.Errorf("ParseGMTOffset(%q) = %v, want %vs", c.in, d, c.wantSec)
		}
	}
}

func TestParseLapDuration(t *testing.T) {
	cases := []struct {
		in       string
		wantSec  float64
		wantOK   bool
	}{
		{"29.456", 29.456, true},
		{"1:23.456", 83.456, true},
		{"LAP", 0, true},
		{"+1 LAP", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseLapDuration(c.in)
		if ok != c.wantOK {
			t.Errorf("ParseLapDuration(%q) ok = %v, want %v", c.in, ok, c.wantOK)
			continue
		}
		if ok && got != c.wantSec {
			t.Errorf("ParseLapDuration(%q) = %v, want %v", c.in, got, c.wantSec)
		}
	}
}

func TestParseTimeDelta(t *testing.T) {
	if v := ParseTimeDelta("LAP"); v != 0.0 {
		t.Errorf(`ParseTimeDelta("LAP") = %v, want 0.0`, v)
	}
	if v := ParseTimeDelta("+1 LAP"); v != "+1 LAP" {
		t.Errorf(`ParseTimeDelta("+1 LAP") = %v, want unchanged string`, v)
	}
	if v := ParseTimeDelta("+0.538"); v != 0.538 {
		t.Errorf(`ParseTimeDelta("+0.538") = %v, want 0.538`, v)
	}
}
