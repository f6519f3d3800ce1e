// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package query

import "testing"

func TestExpandDateOnly_Equality(t *testing.T) {
	out, err := ExpandDateOnly([]Predicate{{Field: "date", Op: OpEqual, Value: "2023-05-07"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 predicates, got %+v", out)
	}
	if out[0].Op != OpGreaterEqual || out[0].Value != "2023-05-07" {
		t.Errorf("unexpected lower bound: %+v", out[0])
	}
	if out[1].Op != OpLess || out[1].Value != "2023-05-08" {
		t.Errorf("unexpected upper bound: %+v", out[1])
	}
}

func TestExpandDateOnly_LessEqual(t *testing.T) {
	out, err := ExpandDateOnly([]Predicate{{Field: "date", Op: OpLessEqual, Value: "2023-05-07"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Op != OpLess || out[0].Value != "2023-05-08" {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestExpandDateOnly_Greater(t *testing.T) {
	out, err := ExpandDateOnly([]Predicate{{Field: "date", Op: OpGreater, Value: "2023-05-07"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Op != OpGreaterEqual || out[0].Value != "2023-05-08" {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestExpandDateOnly_LessAndGreaterEqualPassThrough(t *testing.T) {
	in := []Predicate{
		{Field: "date", Op: OpLess, Value: "2023-05-07"},
		{Field: "date", Op: OpGreaterEqual, Value: "2023-05-07"},
	}
	out, err := ExpandDateOnly(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("expected pass-through, got %+v", out)
	}
}

func TestExpandDateOnly_IgnoresTimestampedValues(t *testing.T) {
	in := []Predicate{{Field: "date", Op: OpEqual, Value: "2023-05-07T13:00:00"}}
	out, err := ExpandDateOnly(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("expected full timestamp to pass through unchanged, got %+v", out)
	}
}
