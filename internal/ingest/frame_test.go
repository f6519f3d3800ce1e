package ingest

import (
	"testing"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func TestParseFrame_PlainJSONContent(t *testing.T) {
	line := `["SessionInfo", {"Key": 9161, "Meeting": {"Key": 1219}}, "2023-05-07T13:00:00.000Z"]`
	msg, err := ParseFrame(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Topic != "SessionInfo" {
		t.Errorf("unexpected topic: %q", msg.Topic)
	}
	content, ok := timing.Map(msg.Content)
	if !ok {
		t.Fatalf("expected map content, got %T", msg.Content)
	}
	if key, ok := timing.Int(content, "Key"); !ok || key != 9161 {
		t.Errorf("unexpected Key: %v ok=%v", key, ok)
	}
	if msg.Timepoint.IsZero() {
		t.Error("expected non-zero timepoint")
	}
}

func TestParseFrame_StringEncodedContentIsDecoded(t *testing.T) {
	line := `["CarData.z", "{\"Entries\":[]}", "2023-05-07T13:00:00Z"]`
	msg, err := ParseFrame(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := timing.Map(msg.Content); !ok {
		t.Fatalf("expected decoded map content, got %T", msg.Content)
	}
}

func TestParseFrame_RejectsEmptyLine(t *testing.T) {
	if _, err := ParseFrame("   "); err == nil {
		t.Error("expected error for empty line")
	}
}

func TestParseFrame_RejectsMalformedLine(t *testing.T) {
	if _, err := ParseFrame("not json"); err == nil {
		t.Error("expected error for malformed line")
	}
}
