// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package query

import "testing"

func TestSubstituteLatest_ReplacesMatchingField(t *testing.T) {
	in := []Predicate{
		{Field: "meeting_key", Op: OpEqual, Value: "latest"},
		{Field: "driver_number", Op: OpEqual, Value: "44"},
	}
	out := SubstituteLatest(in, map[string]string{"meeting_key": "1219"})
	if out[0].Value != "1219" {
		t.Errorf("expected meeting_key to be resolved, got %+v", out[0])
	}
	if out[1].Value != "44" {
		t.Errorf("unrelated predicate must be untouched, got %+v", out[1])
	}
}

func TestSubstituteLatest_NoReplacementsIsNoOp(t *testing.T) {
	in := []Predicate{{Field: "meeting_key", Op: OpEqual, Value: "latest"}}
	out := SubstituteLatest(in, nil)
	if out[0].Value != "latest" {
		t.Errorf("expected no-op without replacements, got %+v", out[0])
	}
}
