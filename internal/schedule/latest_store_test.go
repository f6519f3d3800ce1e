// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package schedule

import (
	"context"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/store"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

func TestNewStoreResolver_ReturnsHighestSessionKey(t *testing.T) {
	st, err := store.Open(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	records := []timing.Record{
		{Collection: "sessions", Key: "1219-9158", ID: 1, Body: map[string]any{
			"meeting_key": 1219, "session_key": 9158,
		}},
		{Collection: "sessions", Key: "1219-9161", ID: 2, Body: map[string]any{
			"meeting_key": 1219, "session_key": 9161,
		}},
		{Collection: "sessions", Key: "1220-9200", ID: 3, Body: map[string]any{
			"meeting_key": 1220, "session_key": 9200,
		}},
	}
	if err := st.Write(context.Background(), records); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	resolve := NewStoreResolver(st)
	keys, err := resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if keys.SessionKey != 9200 || keys.MeetingKey != 1220 {
		t.Errorf("expected {1220 9200}, got %+v", keys)
	}
}

func TestNewStoreResolver_ErrorsWhenStoreEmpty(t *testing.T) {
	st, err := store.Open(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	resolve := NewStoreResolver(st)
	if _, err := resolve(context.Background()); err == nil {
		t.Error("expected error when no sessions have been recorded")
	}
}
