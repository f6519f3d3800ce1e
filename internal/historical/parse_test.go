package historical

import (
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	d, content, ok := parseLine(`00:12:34.567{"foo": "bar"}`)
	if !ok {
		t.Fatal("expected successful parse")
	}
	want := 12*time.Minute + 34*time.Second + 567*time.Millisecond
	if d != want {
		t.Errorf("duration = %v, want %v", d, want)
	}
	if content != `{"foo": "bar"}` {
		t.Errorf("content = %q", content)
	}
}

func TestParseLine_StripsQuotesAndCR(t *testing.T) {
	_, content, ok := parseLine("01:00:00.000\"abc123\"\r")
	if !ok {
		t.Fatal("expected successful parse")
	}
	if content != "abc123" {
		t.Errorf("content = %q, want abc123", content)
	}
}

func TestParseLine_RejectsBlankAndMalformed(t *testing.T) {
	if _, _, ok := parseLine(""); ok {
		t.Error("expected empty line to fail")
	}
	if _, _, ok := parseLine("not a timestamp"); ok {
		t.Error("expected malformed line to fail")
	}
}

func TestDecodeTopic_SkipsBlankAndMalformedLines(t *testing.T) {
	t0 := time.Date(2023, 5, 7, 13, 0, 0, 0, time.UTC)
	lines := []string{
		"",
		"not a line",
		`00:00:01.000{"Key": 1}`,
	}
	messages, err := decodeTopic("SessionInfo", lines, t0)
	if err != nil {
		t.Fatalf("decodeTopic: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if !messages[0].Timepoint.Equal(t0.Add(time.Second)) {
		t.Errorf("timepoint = %v, want %v", messages[0].Timepoint, t0.Add(time.Second))
	}
}
