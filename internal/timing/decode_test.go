// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package timing

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"testing"
)

func TestDecode_PlainJSON(t *testing.T) {
	v, err := Decode(`{"Utc":"2023-05-07T13:00:00Z","Lap":12}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := Map(v)
	if !ok {
		t.Fatalf("expected object, got %#v", v)
	}
	if Str(m, "Utc") != "2023-05-07T13:00:00Z" {
		t.Errorf("unexpected Utc field: %v", m["Utc"])
	}
}

func TestDecode_DoubleQuotedJSON(t *testing.T) {
	v, err := Decode(`"{\"Lap\":1}"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := Map(v); !ok {
		t.Fatalf("expected object after stripping outer quoting, got %#v", v)
	}
}

func TestDecode_RawDeflateBase64(t *testing.T) {
	payload := []byte(`{"Entries":[]}`)
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		t.Fatalf("flate writer: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("flate write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flate close: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	v, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error decoding compressed payload: %v", err)
	}
	m, ok := Map(v)
	if !ok {
		t.Fatalf("expected object, got %#v", v)
	}
	if _, ok := m["Entries"]; !ok {
		t.Errorf("expected Entries field to survive round trip, got %v", m)
	}
}

func TestDecode_InvalidInput(t *testing.T) {
	if _, err := Decode("not json and not base64!!"); err == nil {
		t.Fatal("expected an error for unparseable input")
	}
}
