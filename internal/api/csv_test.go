// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteCSV_EmptyRowsReturnsError(t *testing.T) {
	w := httptest.NewRecorder()
	err := writeCSV(w, "laps", nil)
	if err != ErrCSVEmpty {
		t.Fatalf("expected ErrCSVEmpty, got %v", err)
	}
}

func TestWriteCSV_HeaderIsUnionOfAllRowKeys(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": 2},
		{"a": 1, "c": 3},
	}
	w := httptest.NewRecorder()
	if err := writeCSV(w, "laps", rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := w.Body.String()
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), body)
	}
	if lines[0] != "a,b,c" {
		t.Errorf("expected alphabetized union header, got %q", lines[0])
	}

	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "laps.csv") {
		t.Errorf("expected filename laps.csv in Content-Disposition, got %q", disposition)
	}
}
