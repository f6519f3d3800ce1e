// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package query

import "testing"

func TestParseRawQuery_Empty(t *testing.T) {
	predicates, csv, err := ParseRawQuery("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predicates) != 0 || csv {
		t.Fatalf("expected empty result, got %+v csv=%v", predicates, csv)
	}
}

func TestParseRawQuery_Equality(t *testing.T) {
	predicates, _, err := ParseRawQuery("driver_number=44")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}
	got := predicates[0]
	if got.Field != "driver_number" || got.Op != OpEqual || got.Value != "44" {
		t.Errorf("unexpected predicate: %+v", got)
	}
}

func TestParseRawQuery_BoundedRangePrefersLongOperator(t *testing.T) {
	predicates, _, err := ParseRawQuery("date>=2023-05-07T13:00:00&date<2023-05-07T14:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predicates) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(predicates))
	}
	if predicates[0].Op != OpGreaterEqual {
		t.Errorf("expected >=, got %q", predicates[0].Op)
	}
	if predicates[0].Value != "2023-05-07T13:00:00" {
		t.Errorf("operator must not be swallowed into the value, got %q", predicates[0].Value)
	}
	if predicates[1].Op != OpLess {
		t.Errorf("expected <, got %q", predicates[1].Op)
	}
}

func TestParseRawQuery_CSVSwitch(t *testing.T) {
	predicates, csv, err := ParseRawQuery("driver_number=44&csv=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !csv {
		t.Error("expected csv=true to be recognized")
	}
	if len(predicates) != 1 {
		t.Fatalf("csv switch must not leak into predicates, got %+v", predicates)
	}
}

func TestParseRawQuery_NoOperator(t *testing.T) {
	if _, _, err := ParseRawQuery("justafield"); err == nil {
		t.Fatal("expected an error for a segment with no operator")
	}
}
