// Package collections implements the per-topic processors that fold raw
// feed messages into the canonical documents described by each collection.
// Processors are explicitly registered here rather than discovered by
// reflection: each collection file calls Register from an init func, naming
// the topics it consumes and a constructor for a fresh, session-scoped
// instance of itself.
package collections

import "github.com/tomtom215/f1telemetry/internal/timing"

// Processor folds messages on the topics it declares into records for its
// collection. A Processor instance is never shared across ingestion
// sessions: state it accumulates (last sector times, current stint, etc.)
// belongs to exactly one session.
type Processor interface {
	// Collection is the name of the collection this processor emits into.
	Collection() string
	// Topics lists the source topics this processor consumes.
	Topics() []string
	// Process folds one message into zero or more records. A processor may
	// emit records into collections other than its own Collection(); every
	// processor in this package emits only into its own (race_control's
	// synthetic session rows included).
	Process(msg timing.Message) []timing.Record
}

// Context carries the identity of the session being ingested. The original
// ingestor kept meeting/session key in module-level globals; here each
// Session instance owns its own Context, so two sessions can be processed
// concurrently (by two Sessions) without cross-talk.
type Context struct {
	MeetingKey int
	SessionKey int
}

// Factory constructs a fresh, zero-state Processor instance scoped to ctx.
type Factory func(ctx Context) Processor

var factories []Factory

// Register adds a processor factory to the registry. Called from package
// init functions; never call it after a Session has been built.
func Register(f Factory) {
	factories = append(factories, f)
}

// Session is one ingestion session's worth of processor state: one instance
// of every registered processor, indexed by the topics it consumes.
type Session struct {
	ctx    Context
	all    []Processor
	byTopn map[string][]Processor
}

// NewSession builds a fresh Session with one new instance of every
// registered processor, scoped to ctx.
func NewSession(ctx Context) *Session {
	s := &Session{ctx: ctx, byTopn: make(map[string][]Processor)}
	for _, f := range factories {
		p := f(ctx)
		s.all = append(s.all, p)
		for _, topic := range p.Topics() {
			s.byTopn[topic] = append(s.byTopn[topic], p)
		}
	}
	return s
}

// Context returns the session identity this Session is scoped to.
func (s *Session) Context() Context {
	return s.ctx
}

// Dispatch routes msg to every processor subscribed to its topic and
// returns the concatenation of everything they emit.
func (s *Session) Dispatch(msg timing.Message) []timing.Record {
	var out []timing.Record
	for _, p := range s.byTopn[msg.Topic] {
		out = append(out, p.Process(msg)...)
	}
	return out
}

// Processors returns every processor instance in the session, for callers
// that need a final flush/drain step (none currently do, but the original
// ingestor's per-collection emission ordering relies on being able to walk
// every live collection at end-of-session).
func (s *Session) Processors() []Processor {
	return s.all
}
