package ingest

import (
	"context"

	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

// DurablePublisher fans a single record out to whatever downstream
// consumers are listening (NATS subscribers, replay tooling), optionally
// backed by a write-ahead log so a publish failure never loses the
// record. cmd/ingestd's WAL-aware and WAL-stub components both satisfy
// this with the durability appropriate to how they were built.
type DurablePublisher interface {
	PublishRecord(ctx context.Context, record timing.Record) error
}

// PublishSink wraps a Sink so that every record written to the document
// store is also handed to a DurablePublisher. The store write always
// happens, and always decides the call's outcome: a record is "ingested"
// once it's queryable, and fan-out publishing is best-effort on top of
// that, the same priority order the original ingestor gives SignalR
// messages versus anything watching its output.
type PublishSink struct {
	store     Sink
	publisher DurablePublisher
}

// NewPublishSink returns a Sink that writes through store and additionally
// fans every record out through publisher. A nil publisher makes this a
// pass-through to store, so callers don't need a separate code path for
// "fan-out disabled".
func NewPublishSink(store Sink, publisher DurablePublisher) *PublishSink {
	return &PublishSink{store: store, publisher: publisher}
}

// Write persists records to the store, then, if a publisher is
// configured, fans each one out individually. A fan-out error is logged
// and otherwise swallowed: the records are already durably stored, and
// the publisher's own durability (WAL-backed or not) is responsible for
// not losing them from here.
func (s *PublishSink) Write(ctx context.Context, records []timing.Record) error {
	if err := s.store.Write(ctx, records); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	for _, record := range records {
		if err := s.publisher.PublishRecord(ctx, record); err != nil {
			logging.Warn().
				Err(err).
				Str("collection", record.Collection).
				Str("key", record.Key).
				Msg("Record stored but fan-out publish failed")
		}
	}
	return nil
}
