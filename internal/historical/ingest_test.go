package historical

import (
	"context"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/ingest"
)

func TestClient_IngestSession_PropagatesUnknownSessionError(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/2023/Index.json": `{"Meetings": []}`,
	})
	c := NewClient(srv.URL)
	driver := ingest.NewDriver(nil)

	err := c.IngestSession(context.Background(), driver, 2023, 1141, 7953)
	if err == nil {
		t.Fatal("expected error for a meeting absent from the schedule")
	}
}

func TestClient_IngestMeeting_PropagatesScheduleError(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/2023/Index.json": `{"Meetings": []}`,
	})
	c := NewClient(srv.URL)
	driver := ingest.NewDriver(nil)

	if err := c.IngestMeeting(context.Background(), driver, 2023, 1141, 1); err == nil {
		t.Fatal("expected error for a meeting absent from the schedule")
	}
}

func TestClient_IngestSeason_NoMeetingsIsANoOp(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/2023/Index.json": `{"Meetings": []}`,
	})
	c := NewClient(srv.URL)
	driver := ingest.NewDriver(nil)

	if err := c.IngestSeason(context.Background(), driver, 2023, 1); err != nil {
		t.Fatalf("expected no error for an empty season, got %v", err)
	}
}
