// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package ingest

import (
	"context"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/collections"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

// fakeSink records every batch it's handed, grouped by collection in call
// order — enough to assert both content and write ordering.
type fakeSink struct {
	writes [][]timing.Record
}

func (s *fakeSink) Write(_ context.Context, records []timing.Record) error {
	s.writes = append(s.writes, records)
	return nil
}

// echoProcessor turns every message it sees into one record per call,
// keyed by the message's topic, so tests can control exactly what a
// session dispatch produces without depending on any real collection.
type echoProcessor struct {
	collection string
	topics     []string
}

func (p *echoProcessor) Collection() string   { return p.collection }
func (p *echoProcessor) Topics() []string     { return p.topics }
func (p *echoProcessor) Process(msg timing.Message) []timing.Record {
	return []timing.Record{{Collection: p.collection, Key: msg.Topic, Body: msg.Content}}
}

func newTestSession(collection string, topics ...string) *collections.Session {
	ctx := collections.Context{MeetingKey: 1, SessionKey: 2}
	// NewSession walks the package-level factory registry, which by this
	// point also carries every real collection's init(). Build the
	// session through a throwaway registration instead, so these tests
	// exercise only the fake processor under test.
	collections.Register(func(c collections.Context) collections.Processor {
		return &echoProcessor{collection: collection, topics: topics}
	})
	return collections.NewSession(ctx)
}

func TestDriver_ProcessMessage_AssignsIncreasingIDs(t *testing.T) {
	// A topic unique to this test: the collections registry is a
	// package-level global (by design — see collections.Register), so two
	// tests sharing a topic name would both receive each other's messages.
	const topic = "TestDriver_ProcessMessage_AssignsIncreasingIDs"
	session := newTestSession("echo_a", topic)
	sink := &fakeSink{}
	d := NewDriver(sink)

	for i := 0; i < 3; i++ {
		if err := d.ProcessMessage(context.Background(), session, timing.Message{Topic: topic, Content: i}); err != nil {
			t.Fatalf("ProcessMessage: %v", err)
		}
	}

	if len(sink.writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(sink.writes))
	}
	var lastID int64
	for _, batch := range sink.writes {
		for _, r := range batch {
			if r.ID <= lastID {
				t.Fatalf("ids must strictly increase across writes, got %d after %d", r.ID, lastID)
			}
			lastID = r.ID
		}
	}
}

func TestDriver_ProcessMessages_DedupesKeepingHighestID(t *testing.T) {
	const topic = "TestDriver_ProcessMessages_DedupesKeepingHighestID"
	session := newTestSession("echo_b", topic)
	sink := &fakeSink{}
	d := NewDriver(sink)

	msgs := []timing.Message{
		{Topic: topic, Content: "first"},
		{Topic: topic, Content: "second"},
		{Topic: topic, Content: "third"},
	}
	if err := d.ProcessMessages(context.Background(), session, msgs); err != nil {
		t.Fatalf("ProcessMessages: %v", err)
	}

	if len(sink.writes) != 1 {
		t.Fatalf("expected exactly one write per collection, got %d", len(sink.writes))
	}
	batch := sink.writes[0]
	if len(batch) != 1 {
		t.Fatalf("all three messages share a key, expected exactly one surviving record, got %d", len(batch))
	}
	if batch[0].Body != "third" {
		t.Errorf("expected the last message to win the key collision, got %v", batch[0].Body)
	}
}
