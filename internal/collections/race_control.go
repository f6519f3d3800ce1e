package collections

import (
	"strconv"
	"strings"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newRaceControlProcessor(ctx) })
}

// RaceControlDocument is one race control message, or a synthetic entry
// this processor generates from a session-status transition the feed
// otherwise only exposes as raw telemetry (SessionData's StatusSeries).
type RaceControlDocument struct {
	MeetingKey       int    `json:"meeting_key"`
	SessionKey       int    `json:"session_key"`
	Date             string `json:"date"`
	Category         string `json:"category"`
	Message          string `json:"message"`
	Flag             string `json:"flag,omitempty"`
	Scope            string `json:"scope,omitempty"`
	Sector           *int   `json:"sector,omitempty"`
	DriverNumber     *int   `json:"driver_number,omitempty"`
	LapNumber        *int   `json:"lap_number,omitempty"`
	QualifyingPhase  string `json:"qualifying_phase,omitempty"`
}

// qualifyingPhaseMarkers are substrings the feed uses in its own prose to
// announce a new part of qualifying has begun; once seen, every later
// message in the session is stamped with that phase until the next one.
var qualifyingPhaseMarkers = []string{"Q1", "Q2", "Q3"}

type raceControlProcessor struct {
	ctx            Context
	isQualifying   bool
	currentPhase   string
	seq            int
}

func newRaceControlProcessor(ctx Context) *raceControlProcessor {
	return &raceControlProcessor{ctx: ctx}
}

func (p *raceControlProcessor) Collection() string { return "race_control" }
func (p *raceControlProcessor) Topics() []string {
	return []string{"SessionInfo", "SessionData", "RaceControlMessages"}
}

func (p *raceControlProcessor) Process(msg timing.Message) []timing.Record {
	switch msg.Topic {
	case "SessionInfo":
		return p.processSessionInfo(msg)
	case "SessionData":
		return p.processSessionData(msg)
	case "RaceControlMessages":
		return p.processMessages(msg)
	default:
		return nil
	}
}

func (p *raceControlProcessor) processSessionInfo(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if ok {
		t := timing.Str(m, "Type")
		p.isQualifying = t == "Qualifying" || t == "Sprint Qualifying" || t == "Sprint Shootout"
	}
	return nil
}

// processSessionData turns session-status transitions (flag/track status
// changes the feed reports as raw telemetry, not prose) into synthetic
// race control entries, so a reader querying this collection alone still
// sees "session started"/"session finished" markers.
func (p *raceControlProcessor) processSessionData(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	series, ok := timing.Slice(m["StatusSeries"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for _, rawEntry := range series {
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}
		status := timing.Str(entry, "SessionStatus")
		if status == "" {
			continue
		}
		doc := RaceControlDocument{
			MeetingKey: p.ctx.MeetingKey,
			SessionKey: p.ctx.SessionKey,
			Date:       msg.Timepoint.Format("2006-01-02T15:04:05.000Z"),
			Category:   "Other",
			Message:    "SESSION " + strings.ToUpper(status),
		}
		p.seq++
		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, "session", p.seq)
		out = append(out, timing.Record{Collection: "race_control", Key: key, Body: doc})
	}
	return out
}

func (p *raceControlProcessor) processMessages(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	messages, ok := timing.Slice(m["Messages"])
	if !ok {
		// Some snapshots deliver Messages as an object keyed by index
		// instead of an array; normalize both shapes the same way the
		// stints processor does for its own indexed fields.
		if obj, ok := timing.Map(m["Messages"]); ok {
			messages = mapValues(obj)
		} else {
			return nil
		}
	}

	var out []timing.Record
	for _, rawEntry := range messages {
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}

		text := timing.Str(entry, "Message")
		if p.isQualifying {
			for _, marker := range qualifyingPhaseMarkers {
				if strings.Contains(text, marker) {
					p.currentPhase = marker
					break
				}
			}
		}

		doc := RaceControlDocument{
			MeetingKey: p.ctx.MeetingKey,
			SessionKey: p.ctx.SessionKey,
			Date:       timing.Str(entry, "Utc"),
			Category:   timing.Str(entry, "Category"),
			Message:    text,
			Flag:       timing.Str(entry, "Flag"),
			Scope:      timing.Str(entry, "Scope"),
		}
		if p.isQualifying {
			doc.QualifyingPhase = p.currentPhase
		}
		if sector, ok := timing.Int(entry, "Sector"); ok {
			doc.Sector = &sector
		}
		if lap, ok := timing.Int(entry, "Lap"); ok {
			doc.LapNumber = &lap
		}
		if racingNumber := timing.Str(entry, "RacingNumber"); racingNumber != "" {
			if num, err := strconv.Atoi(racingNumber); err == nil {
				doc.DriverNumber = &num
			}
		}
		if doc.Date == "" {
			doc.Date = msg.Timepoint.Format("2006-01-02T15:04:05.000Z")
		}

		p.seq++
		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, "msg", p.seq)
		out = append(out, timing.Record{Collection: "race_control", Key: key, Body: doc})
	}
	return out
}

func mapValues(m map[string]any) []any {
	out := make([]any, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
