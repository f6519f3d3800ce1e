// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"testing"

	json "github.com/goccy/go-json"
)

func rawDoc(t *testing.T, v map[string]any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}

func TestPostprocess_StripsUnderscoreFields(t *testing.T) {
	docs := []json.RawMessage{
		rawDoc(t, map[string]any{"_key": "abc", "_id": float64(1), "driver_number": float64(44)}),
	}
	out, err := postprocess("laps", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if _, ok := out[0]["_key"]; ok {
		t.Error("expected _key to be stripped")
	}
	if _, ok := out[0]["_id"]; ok {
		t.Error("expected _id to be stripped")
	}
	if out[0]["driver_number"] != float64(44) {
		t.Errorf("unexpected driver_number: %v", out[0]["driver_number"])
	}
}

func TestPostprocess_SortsByKeyPrecedence(t *testing.T) {
	docs := []json.RawMessage{
		rawDoc(t, map[string]any{"session_key": float64(2), "driver_number": float64(1)}),
		rawDoc(t, map[string]any{"session_key": float64(1), "driver_number": float64(2)}),
	}
	out, err := postprocess("laps", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0]["session_key"] != float64(1) || out[1]["session_key"] != float64(2) {
		t.Errorf("expected ascending session_key order, got %+v", out)
	}
}

func TestPostprocess_MeetingsDedupKeepsFirstOccurrence(t *testing.T) {
	docs := []json.RawMessage{
		rawDoc(t, map[string]any{"meeting_key": float64(1), "meeting_name": "first"}),
		rawDoc(t, map[string]any{"meeting_key": float64(1), "meeting_name": "second"}),
		rawDoc(t, map[string]any{"meeting_key": float64(2), "meeting_name": "other"}),
	}
	out, err := postprocess("meetings", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows after dedup, got %d: %+v", len(out), out)
	}
	if out[0]["meeting_name"] != "first" {
		t.Errorf("expected first occurrence kept, got %v", out[0]["meeting_name"])
	}
}

func TestPostprocess_NonMeetingsCollectionNotDeduped(t *testing.T) {
	docs := []json.RawMessage{
		rawDoc(t, map[string]any{"meeting_key": float64(1), "driver_number": float64(1)}),
		rawDoc(t, map[string]any{"meeting_key": float64(1), "driver_number": float64(2)}),
	}
	out, err := postprocess("laps", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected both rows retained for a non-meetings collection, got %d", len(out))
	}
}
