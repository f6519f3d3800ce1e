package historical

import (
	"context"
	"fmt"
	"sort"
)

// Session is one practice/qualifying/race session within a meeting.
type Session struct {
	Key  int    `json:"Key"`
	Path string `json:"Path"`
}

// Meeting is one race weekend within a season's schedule.
type Meeting struct {
	Key      int       `json:"Key"`
	Sessions []Session `json:"Sessions"`
}

// Schedule is a season's full index of meetings and sessions, as served
// by `{year}/Index.json`.
type Schedule struct {
	Meetings []Meeting `json:"Meetings"`
}

// GetSchedule downloads the schedule index for year.
func (c *Client) GetSchedule(ctx context.Context, year int) (Schedule, error) {
	var schedule Schedule
	url := c.joinURL(fmt.Sprintf("%d", year), "Index.json")
	if err := c.getJSON(ctx, url, &schedule); err != nil {
		return Schedule{}, err
	}
	return schedule, nil
}

// SessionPath returns the archive path for meetingKey/sessionKey within
// schedule, the prefix every topic file for that session is downloaded
// relative to.
func (s Schedule) SessionPath(meetingKey, sessionKey int) (string, error) {
	for _, m := range s.Meetings {
		if m.Key != meetingKey {
			continue
		}
		for _, sess := range m.Sessions {
			if sess.Key == sessionKey {
				if err := validateURLPathSegment(sess.Path); err != nil {
					return "", err
				}
				return sess.Path, nil
			}
		}
		return "", fmt.Errorf("historical: session %d not found in meeting %d", sessionKey, meetingKey)
	}
	return "", fmt.Errorf("historical: meeting %d not found in schedule", meetingKey)
}

// SessionKeys returns every session key within meetingKey, in schedule
// order (practice/qualifying/race), the order ingest-meeting replays them.
func (s Schedule) SessionKeys(meetingKey int) ([]int, error) {
	for _, m := range s.Meetings {
		if m.Key != meetingKey {
			continue
		}
		keys := make([]int, len(m.Sessions))
		for i, sess := range m.Sessions {
			keys[i] = sess.Key
		}
		return keys, nil
	}
	return nil, fmt.Errorf("historical: meeting %d not found in schedule", meetingKey)
}

// MeetingKeys returns every meeting key in schedule, sorted ascending so
// ingest-season replays a season in calendar order.
func (s Schedule) MeetingKeys() []int {
	keys := make([]int, len(s.Meetings))
	for i, m := range s.Meetings {
		keys[i] = m.Key
	}
	sort.Ints(keys)
	return keys
}

// SessionURL resolves the full archive URL prefix for a session: the
// schedule lookup followed by the base-URL join, so callers never handle
// Schedule/Session directly.
func (c *Client) SessionURL(ctx context.Context, year, meetingKey, sessionKey int) (string, error) {
	schedule, err := c.GetSchedule(ctx, year)
	if err != nil {
		return "", err
	}
	path, err := schedule.SessionPath(meetingKey, sessionKey)
	if err != nil {
		return "", err
	}
	return c.joinURL(path), nil
}
