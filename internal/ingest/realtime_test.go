package ingest

import (
	"context"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func TestRealtimeIngestor_DropsFramesBeforeSessionInfo(t *testing.T) {
	sink := &fakeSink{}
	ingestor := NewRealtimeIngestor(NewDriver(sink))

	line := `["TimingData", {"Lines": {}}, "2023-05-07T13:00:00Z"]`
	if err := ingestor.IngestLine(context.Background(), line); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("expected no writes before SessionInfo, got %d", len(sink.writes))
	}
}

func TestRealtimeIngestor_BuildsSessionFromSessionInfo(t *testing.T) {
	sink := &fakeSink{}
	ingestor := NewRealtimeIngestor(NewDriver(sink))

	sessionInfo := `["SessionInfo", {"Key": 9161, "Meeting": {"Key": 1219}}, "2023-05-07T13:00:00Z"]`
	if err := ingestor.IngestLine(context.Background(), sessionInfo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := ingestor.sessionFor(timing.Message{Topic: "noop"})
	if session == nil {
		t.Fatal("expected session to be built after SessionInfo frame")
	}
	if session.Context().MeetingKey != 1219 || session.Context().SessionKey != 9161 {
		t.Errorf("unexpected session context: %+v", session.Context())
	}
}
