// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/store"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	st, err := store.Open(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.Write(context.Background(), []timing.Record{
		{Collection: "laps", Key: "9161-44-1", ID: 1, Body: map[string]any{
			"session_key": 9161, "driver_number": 44, "lap_number": 1,
		}},
		{Collection: "laps", Key: "9161-44-2", ID: 2, Body: map[string]any{
			"session_key": 9161, "driver_number": 44, "lap_number": 2,
		}},
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	return NewHandler(st, nil, nil, &config.APIConfig{})
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get(collectionRoute, h.Collection)
	return r
}

func TestCollection_ReturnsMatchingRowsAsJSON(t *testing.T) {
	h := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/laps?session_key=9161", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestCollection_InvalidCollectionNameIsBadRequest(t *testing.T) {
	h := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/Not-Valid!", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCollection_UnknownCollectionReturnsEmptyArray(t *testing.T) {
	h := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]\n" && rec.Body.String() != "[]" {
		t.Errorf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestCollection_CSVSwitch(t *testing.T) {
	h := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/laps?session_key=9161&csv=true", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("unexpected content type: %q", ct)
	}
}
