// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package query

import "testing"

func TestCompile_Empty(t *testing.T) {
	got := Compile(nil)
	if got.Where != "1=1" {
		t.Errorf("expected 1=1 base clause, got %q", got.Where)
	}
	if len(got.Args) != 0 {
		t.Errorf("expected no args, got %v", got.Args)
	}
}

func TestCompile_RepeatedEqualityOrs(t *testing.T) {
	predicates := []Predicate{
		{Field: "driver_number", Op: OpEqual, Value: "1"},
		{Field: "driver_number", Op: OpEqual, Value: "44"},
	}
	got := Compile(predicates)
	if len(got.Args) != 2 {
		t.Fatalf("expected 2 args, got %d: %v", len(got.Args), got.Args)
	}
	if got.Args[0] != float64(1) || got.Args[1] != float64(44) {
		t.Errorf("expected numeric args, got %v", got.Args)
	}
}

func TestCompile_GreedilyPairsBoundedRange(t *testing.T) {
	predicates := []Predicate{
		{Field: "date", Op: OpGreaterEqual, Value: "2023-05-07T13:00:00"},
		{Field: "date", Op: OpLess, Value: "2023-05-07T14:00:00"},
	}
	got := Compile(predicates)
	if len(got.Args) != 2 {
		t.Fatalf("expected 2 args for a paired range, got %d", len(got.Args))
	}
}

func TestCompile_AndsAcrossFields(t *testing.T) {
	predicates := []Predicate{
		{Field: "driver_number", Op: OpEqual, Value: "44"},
		{Field: "session_key", Op: OpEqual, Value: "9159"},
	}
	got := Compile(predicates)
	if got.Where == "1=1" {
		t.Fatal("expected a non-trivial WHERE clause")
	}
	if len(got.Args) != 2 {
		t.Fatalf("expected one arg per field, got %d", len(got.Args))
	}
}

func TestCastArg_TypeInference(t *testing.T) {
	if _, ok := castArg("44").(float64); !ok {
		t.Error("expected numeric literal to infer as float64")
	}
	if v := castArg("true"); v != "true" {
		t.Errorf("expected boolean literal to stay a plain string for text comparison, got %#v", v)
	}
	if v := castArg("VER"); v != "VER" {
		t.Errorf("expected unrecognized literal to fall through as string, got %#v", v)
	}
}
