package historical

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

// GetMessages downloads and decodes every message on topics for the
// session at sessionURL, timestamped relative to t0, and returns them in
// feed-replay order: by timepoint, and by topic name to break ties.
func (c *Client) GetMessages(ctx context.Context, sessionURL string, topics []string, t0 time.Time) ([]timing.Message, error) {
	var all []timing.Message
	for _, topic := range topics {
		raw, err := c.GetTopicContent(ctx, sessionURL, topic)
		if err != nil {
			return nil, err
		}
		messages, err := decodeTopic(topic, raw, t0)
		if err != nil {
			return nil, err
		}
		all = append(all, messages...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timepoint.Equal(all[j].Timepoint) {
			return all[i].Timepoint.Before(all[j].Timepoint)
		}
		return all[i].Topic < all[j].Topic
	})
	return all, nil
}
