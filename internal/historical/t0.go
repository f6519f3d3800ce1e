package historical

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

// epoch is the reference clock decodeTopic is given when estimating t0:
// decodeTopic's only job there is to recover each message's session-time
// offset, so any fixed reference works as long as it's subtracted back
// out below.
var epoch = time.Unix(0, 0).UTC()

// EstimateT0 estimates the wall-clock time a session started streaming
// (t0), the same calculation FastF1 uses: every Position.z and CarData.z
// message carries its own absolute timestamp alongside the session-time
// offset from the start of the recording, so t0 is recoverable as
// (absolute timestamp - session-time offset), taking the latest candidate
// across every message to account for the feed's warm-up jitter.
func (c *Client) EstimateT0(ctx context.Context, sessionURL string) (time.Time, error) {
	var candidates []time.Time

	positionT0s, err := c.t0CandidatesFromTopic(ctx, sessionURL, "Position.z", "Position", "Timestamp")
	if err != nil {
		return time.Time{}, err
	}
	candidates = append(candidates, positionT0s...)

	carDataT0s, err := c.t0CandidatesFromTopic(ctx, sessionURL, "CarData.z", "Entries", "Utc")
	if err != nil {
		return time.Time{}, err
	}
	candidates = append(candidates, carDataT0s...)

	if len(candidates) == 0 {
		return time.Time{}, fmt.Errorf("historical: no t0 candidates found in Position.z or CarData.z")
	}

	t0 := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(t0) {
			t0 = c
		}
	}
	return t0, nil
}

func (c *Client) t0CandidatesFromTopic(ctx context.Context, sessionURL, topic, entriesKey, timestampKey string) ([]time.Time, error) {
	raw, err := c.GetTopicContent(ctx, sessionURL, topic)
	if err != nil {
		return nil, err
	}
	messages, err := decodeTopic(topic, raw, epoch)
	if err != nil {
		return nil, err
	}

	var candidates []time.Time
	for _, msg := range messages {
		fields, ok := timing.Map(msg.Content)
		if !ok {
			continue
		}
		entries, ok := timing.Slice(fields[entriesKey])
		if !ok {
			continue
		}
		sessionTime := msg.Timepoint.Sub(epoch)
		for _, entry := range entries {
			entryFields, ok := timing.Map(entry)
			if !ok {
				continue
			}
			ts := timing.Str(entryFields, timestampKey)
			if ts == "" {
				continue
			}
			absolute, err := timing.ParseTime(ts)
			if err != nil {
				continue
			}
			candidates = append(candidates, absolute.Add(-sessionTime))
		}
	}
	return candidates, nil
}
