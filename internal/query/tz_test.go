// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package query

import "testing"

func TestParseRawQuery_TimezonePlusRestoredForDateFields(t *testing.T) {
	// A literal "+01:00" offset is decoded to a space by url.QueryUnescape
	// before splitOnOperator ever sees it; ParseRawQuery must put it back.
	predicates, _, err := ParseRawQuery("date>2023-05-07T13:00:00+01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predicates) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(predicates))
	}
	if got, want := predicates[0].Value, "2023-05-07T13:00:00+01:00"; got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}

func TestParseRawQuery_TimezonePlusLeftAloneForNonDateFields(t *testing.T) {
	predicates, _, err := ParseRawQuery("driver_number=44")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if predicates[0].Value != "44" {
		t.Errorf("unexpected rewrite of non-date field: %+v", predicates[0])
	}
}
