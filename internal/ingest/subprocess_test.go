package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunSubprocess_StopsOnContextCancel(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "capture.txt")
	if err := os.WriteFile(capture, []byte("data\n"), 0o644); err != nil {
		t.Fatalf("seed capture file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := RunSubprocess(ctx, SubprocessConfig{
		Command:       "sh",
		Args:          []string{"-c", "sleep 5"},
		CapturePath:   capture,
		ReconnectWait: 10 * time.Millisecond,
	})
	if err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestRunSubprocess_RespectsReconnectMax(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "capture.txt")

	err := RunSubprocess(context.Background(), SubprocessConfig{
		Command:       "sh",
		Args:          []string{"-c", "exit 1"},
		CapturePath:   capture,
		ReconnectWait: time.Millisecond,
		ReconnectMax:  2,
	})
	if err == nil {
		t.Fatal("expected error after exhausting restart attempts")
	}
}
