// Package ingest drives decoded messages through a collection Session and
// on to a Sink, in the two shapes the rest of the system needs: one message
// at a time for the real-time feed, or a whole batch at once for historical
// backfill.
package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/f1telemetry/internal/collections"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

// Sink persists a batch of records, all belonging to the same collection.
type Sink interface {
	Write(ctx context.Context, records []timing.Record) error
}

// Driver assigns monotonic IDs to every record a Session produces and hands
// them to a Sink.
type Driver struct {
	clock *timing.Clock
	sink  Sink
}

// NewDriver returns a Driver backed by sink, with its own id Clock.
func NewDriver(sink Sink) *Driver {
	return &Driver{clock: timing.NewClock(), sink: sink}
}

// ProcessMessage folds one message into the session and writes whatever it
// produces immediately. Used by the real-time ingestor: a record's _key
// carries enough information for the store's upsert to resolve ordering
// against any record already written for that key, so there's no need to
// hold anything back.
func (d *Driver) ProcessMessage(ctx context.Context, session *collections.Session, msg timing.Message) error {
	records := session.Dispatch(msg)
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		records[i].ID = d.clock.Next()
	}
	byCollection := groupByCollection(records)
	for collection, recs := range byCollection {
		if err := d.sink.Write(ctx, recs); err != nil {
			return fmt.Errorf("ingest: write %s: %w", collection, err)
		}
	}
	return nil
}

// ProcessMessages folds a whole batch of messages (in feed order) through
// the session, deduplicating on (collection, key) as it goes — a later
// record for the same key always replaces an earlier one, since it's a
// closer-to-final view of that document — and emits one write per
// collection, sorted by id, once the whole batch has been folded. Used by
// the historical ingestor, where holding the full session in memory before
// writing is the point: it's what lets a late-arriving correction replace
// an earlier guess before anything is ever persisted.
func (d *Driver) ProcessMessages(ctx context.Context, session *collections.Session, msgs []timing.Message) error {
	buffer := make(map[string]map[string]timing.Record)

	for _, msg := range msgs {
		for _, r := range session.Dispatch(msg) {
			r.ID = d.clock.Next()
			byKey := buffer[r.Collection]
			if byKey == nil {
				byKey = make(map[string]timing.Record)
				buffer[r.Collection] = byKey
			}
			if existing, ok := byKey[r.Key]; !ok || r.ID > existing.ID {
				byKey[r.Key] = r
			}
		}
	}

	collectionsOut := make([]string, 0, len(buffer))
	for collection := range buffer {
		collectionsOut = append(collectionsOut, collection)
	}
	sort.Strings(collectionsOut)

	for _, collection := range collectionsOut {
		byKey := buffer[collection]
		recs := make([]timing.Record, 0, len(byKey))
		for _, r := range byKey {
			recs = append(recs, r)
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
		if err := d.sink.Write(ctx, recs); err != nil {
			return fmt.Errorf("ingest: write %s: %w", collection, err)
		}
	}
	return nil
}

func groupByCollection(records []timing.Record) map[string][]timing.Record {
	out := make(map[string][]timing.Record)
	for _, r := range records {
		out[r.Collection] = append(out[r.Collection], r)
	}
	return out
}
