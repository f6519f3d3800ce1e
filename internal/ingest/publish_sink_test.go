package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

type fakePublisher struct {
	published []timing.Record
	err       error
}

func (p *fakePublisher) PublishRecord(_ context.Context, record timing.Record) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, record)
	return nil
}

func TestPublishSink_WritesStoreThenFansOut(t *testing.T) {
	store := &fakeSink{}
	pub := &fakePublisher{}
	sink := NewPublishSink(store, pub)

	records := []timing.Record{
		{Collection: "laps", Key: "1:2", ID: 1},
		{Collection: "laps", Key: "1:3", ID: 2},
	}

	if err := sink.Write(context.Background(), records); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(store.writes) != 1 || len(store.writes[0]) != 2 {
		t.Fatalf("expected one store write of two records, got %+v", store.writes)
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected both records published, got %d", len(pub.published))
	}
}

func TestPublishSink_NilPublisherIsPassthrough(t *testing.T) {
	store := &fakeSink{}
	sink := NewPublishSink(store, nil)

	if err := sink.Write(context.Background(), []timing.Record{{Collection: "laps", Key: "1:2"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected store write even with nil publisher, got %+v", store.writes)
	}
}

func TestPublishSink_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := &fakeSink{}
	pub := &fakePublisher{err: errors.New("nats unavailable")}
	sink := NewPublishSink(store, pub)

	err := sink.Write(context.Background(), []timing.Record{{Collection: "laps", Key: "1:2"}})
	if err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected store write to still happen, got %+v", store.writes)
	}
}

func TestPublishSink_StoreFailurePropagates(t *testing.T) {
	store := &failingSink{err: errors.New("disk full")}
	pub := &fakePublisher{}
	sink := NewPublishSink(store, pub)

	err := sink.Write(context.Background(), []timing.Record{{Collection: "laps", Key: "1:2"}})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if len(pub.published) != 0 {
		t.Error("expected no fan-out when the store write fails")
	}
}

type failingSink struct {
	err error
}

func (s *failingSink) Write(context.Context, []timing.Record) error {
	return s.err
}
