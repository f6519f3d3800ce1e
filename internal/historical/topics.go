package historical

import (
	"context"
	"sort"
	"strings"
)

// topicIndex mirrors the `Index.json` served under a session's archive
// path: one entry per recorded topic, naming the file it was streamed to.
type topicIndex struct {
	Feeds map[string]struct {
		StreamPath string `json:"StreamPath"`
	} `json:"Feeds"`
}

// ListTopics returns every topic recorded for the session at sessionURL,
// sorted alphabetically.
func (c *Client) ListTopics(ctx context.Context, sessionURL string) ([]string, error) {
	var idx topicIndex
	if err := c.getJSON(ctx, c.joinURL(sessionURL, "Index.json"), &idx); err != nil {
		return nil, err
	}

	var topics []string
	for _, feed := range idx.Feeds {
		if name, ok := strings.CutSuffix(feed.StreamPath, ".jsonStream"); ok {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// GetTopicContent downloads topic's raw recorded lines for the session at
// sessionURL. The archive stores each topic as a `\r\n`-delimited stream
// of `<session-time><content>` lines, the same shape ParseFrame's
// real-time counterpart exists to avoid needing here.
func (c *Client) GetTopicContent(ctx context.Context, sessionURL, topic string) ([]string, error) {
	body, err := c.get(ctx, c.joinURL(sessionURL, topic+".jsonStream"))
	if err != nil {
		return nil, err
	}
	return strings.Split(string(body), "\r\n"), nil
}
