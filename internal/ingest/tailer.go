package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// pollInterval is how often the Tailer checks for new data once it has
// caught up to the end of the file, mirroring the original ingestor's
// 0.1s poll loop.
const pollInterval = 100 * time.Millisecond

// Tailer reads every line already in a file, then follows lines appended
// to it as the recording subprocess keeps writing, handing each to a
// callback as it's seen. Apart from stepping back to re-read a partial,
// unterminated last line once it is complete, it never seeks backward: a
// truncated or rotated file stalls as stale rather than silently replaying.
type Tailer struct {
	Path string
}

// NewTailer returns a Tailer over path.
func NewTailer(path string) *Tailer {
	return &Tailer{Path: path}
}

// Run opens the file, delivers every existing line to onLine, then polls
// for newly appended lines until ctx is canceled. A line callback error is
// fatal to the tail: the caller decides whether that's a reason to
// restart the whole subprocess/tailer pair.
func (t *Tailer) Run(ctx context.Context, onLine func(line string) error) error {
	f, err := os.Open(t.Path)
	if err != nil {
		return fmt.Errorf("ingest: open %s: %w", t.Path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("ingest: read %s: %w", t.Path, err)
		}
		if err == io.EOF {
			// A partial, not-yet-newline-terminated tail means the writer
			// is mid-line; rewind so the next poll re-reads it whole.
			if line != "" {
				if _, seekErr := f.Seek(-int64(len(line)), io.SeekCurrent); seekErr != nil {
					return fmt.Errorf("ingest: seek %s: %w", t.Path, seekErr)
				}
				reader.Reset(f)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
			continue
		}

		if cbErr := onLine(line); cbErr != nil {
			return cbErr
		}
	}
}
