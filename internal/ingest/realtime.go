package ingest

import (
	"context"
	"sync"

	"github.com/tomtom215/f1telemetry/internal/collections"
	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

// sessionInfoTopic is the feed topic carrying the meeting/session identity
// a real-time recording belongs to. Nothing else can be processed until
// this has been seen once, since every collection processor is
// constructed already scoped to a fixed (meeting_key, session_key).
const sessionInfoTopic = "SessionInfo"

// RealtimeIngestor feeds raw recorded lines through ParseFrame and a
// Driver, lazily building the collections.Session the moment a
// SessionInfo frame reveals which meeting/session is being recorded.
// Frames seen before that point are dropped: there is no well-formed
// document to produce for them yet, and the recording always carries a
// SessionInfo frame near the start of a session.
type RealtimeIngestor struct {
	driver *Driver

	mu      sync.Mutex
	session *collections.Session
}

// NewRealtimeIngestor returns a RealtimeIngestor writing through driver.
func NewRealtimeIngestor(driver *Driver) *RealtimeIngestor {
	return &RealtimeIngestor{driver: driver}
}

// IngestLine parses one raw recorded line and, once a session is known,
// folds it into the running Session and writes whatever it produces.
func (r *RealtimeIngestor) IngestLine(ctx context.Context, line string) error {
	msg, err := ParseFrame(line)
	if err != nil {
		logging.Warn().Err(err).Msg("Discarding unparseable frame")
		return nil
	}

	session := r.sessionFor(msg)
	if session == nil {
		return nil
	}

	return r.driver.ProcessMessage(ctx, session, msg)
}

func (r *RealtimeIngestor) sessionFor(msg timing.Message) *collections.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil && msg.Topic == sessionInfoTopic {
		if keys, ok := parseSessionInfo(msg.Content); ok {
			r.session = collections.NewSession(keys)
			logging.Info().
				Int("meeting_key", keys.MeetingKey).
				Int("session_key", keys.SessionKey).
				Msg("Real-time session identified")
		} else {
			logging.Warn().Msg("SessionInfo frame missing meeting_key/session_key")
		}
	}

	return r.session
}

func parseSessionInfo(content any) (collections.Context, bool) {
	fields, ok := timing.Map(content)
	if !ok {
		return collections.Context{}, false
	}
	sessionKey, ok := timing.Int(fields, "Key")
	if !ok {
		return collections.Context{}, false
	}
	meeting, ok := timing.Map(fields["Meeting"])
	if !ok {
		return collections.Context{}, false
	}
	meetingKey, ok := timing.Int(meeting, "Key")
	if !ok {
		return collections.Context{}, false
	}
	return collections.Context{MeetingKey: meetingKey, SessionKey: sessionKey}, true
}
