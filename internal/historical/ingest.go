package historical

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/f1telemetry/internal/collections"
	"github.com/tomtom215/f1telemetry/internal/ingest"
	"github.com/tomtom215/f1telemetry/internal/logging"
)

// IngestSession backfills one session: it resolves the session's archive
// path, estimates t0, downloads every recorded topic, and replays the
// decoded messages through driver's batch path (ProcessMessages), which
// deduplicates on (collection, key) before anything is written — the
// same correction-aware semantics a live session gets, but over the
// session's full history at once instead of message by message.
func (c *Client) IngestSession(ctx context.Context, driver *ingest.Driver, year, meetingKey, sessionKey int) error {
	sessionURL, err := c.SessionURL(ctx, year, meetingKey, sessionKey)
	if err != nil {
		return err
	}
	logging.Info().Str("session_url", sessionURL).Msg("Resolved session archive")

	t0, err := c.EstimateT0(ctx, sessionURL)
	if err != nil {
		return fmt.Errorf("historical: estimate t0: %w", err)
	}
	logging.Info().Time("t0", t0).Msg("Estimated session start")

	topics, err := c.ListTopics(ctx, sessionURL)
	if err != nil {
		return err
	}
	logging.Info().Int("topics", len(topics)).Msg("Listed session topics")

	messages, err := c.GetMessages(ctx, sessionURL, topics, t0)
	if err != nil {
		return err
	}
	logging.Info().Int("messages", len(messages)).Msg("Fetched session messages")

	session := collections.NewSession(collections.Context{MeetingKey: meetingKey, SessionKey: sessionKey})
	if err := driver.ProcessMessages(ctx, session, messages); err != nil {
		return fmt.Errorf("historical: process session %d: %w", sessionKey, err)
	}
	logging.Info().Int("session_key", sessionKey).Msg("Session ingested")
	return nil
}

// IngestMeeting backfills every session of meetingKey, up to workers at a
// time (1 = strictly sequential, matching the schedule's
// practice/qualifying/race order; >1 trades that ordering for throughput,
// since each session is independently deduplicated and keyed by its own
// session_key regardless of write order).
func (c *Client) IngestMeeting(ctx context.Context, driver *ingest.Driver, year, meetingKey, workers int) error {
	schedule, err := c.GetSchedule(ctx, year)
	if err != nil {
		return err
	}
	sessionKeys, err := schedule.SessionKeys(meetingKey)
	if err != nil {
		return err
	}
	logging.Info().Int("sessions", len(sessionKeys)).Int("meeting_key", meetingKey).Msg("Ingesting meeting")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for _, sessionKey := range sessionKeys {
		sessionKey := sessionKey
		g.Go(func() error {
			return c.IngestSession(gctx, driver, year, meetingKey, sessionKey)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("historical: ingest meeting %d: %w", meetingKey, err)
	}
	return nil
}

// IngestSeason backfills every meeting in year, up to workers meetings at
// a time; see IngestMeeting for what bounding concurrency trades away.
func (c *Client) IngestSeason(ctx context.Context, driver *ingest.Driver, year, workers int) error {
	schedule, err := c.GetSchedule(ctx, year)
	if err != nil {
		return err
	}
	meetingKeys := schedule.MeetingKeys()
	logging.Info().Int("meetings", len(meetingKeys)).Int("year", year).Msg("Ingesting season")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for _, meetingKey := range meetingKeys {
		meetingKey := meetingKey
		g.Go(func() error {
			return c.IngestMeeting(gctx, driver, year, meetingKey, workers)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("historical: ingest season %d: %w", year, err)
	}
	return nil
}

// workerLimit normalizes a configured worker count to a valid
// errgroup.SetLimit value, treating anything non-positive as sequential.
func workerLimit(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}
