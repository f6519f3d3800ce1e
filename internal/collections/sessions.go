package collections

import (
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newSessionsProcessor(ctx) })
}

// SessionDocument describes one session (practice, qualifying, sprint,
// race) within a meeting.
type SessionDocument struct {
	MeetingKey        int    `json:"meeting_key"`
	SessionKey        int    `json:"session_key"`
	SessionName       string `json:"session_name"`
	SessionType       string `json:"session_type"`
	Location          string `json:"location"`
	CountryCode       string `json:"country_code"`
	CountryName       string `json:"country_name"`
	CircuitKey        int    `json:"circuit_key"`
	CircuitShortName  string `json:"circuit_short_name"`
	DateStart         string `json:"date_start"`
	DateEnd           string `json:"date_end"`
	GmtOffset         string `json:"gmt_offset"`
	Year              int    `json:"year"`
}

type sessionsProcessor struct {
	ctx Context
}

func newSessionsProcessor(ctx Context) *sessionsProcessor {
	return &sessionsProcessor{ctx: ctx}
}

func (p *sessionsProcessor) Collection() string { return "sessions" }
func (p *sessionsProcessor) Topics() []string    { return []string{"SessionInfo"} }

func (p *sessionsProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	meeting, _ := timing.Map(m["Meeting"])
	country, _ := timing.Map(meeting["Country"])
	circuit, _ := timing.Map(meeting["Circuit"])

	gmtOffset := timing.Str(m, "GmtOffset")
	offset, _ := timing.ParseGMTOffset(gmtOffset)

	doc := SessionDocument{
		MeetingKey:       p.ctx.MeetingKey,
		SessionKey:       p.ctx.SessionKey,
		SessionName:      timing.Str(m, "Name"),
		SessionType:      timing.Str(m, "Type"),
		Location:         timing.Str(meeting, "Location"),
		CountryCode:      timing.Str(country, "Code"),
		CountryName:      timing.Str(country, "Name"),
		CircuitShortName: timing.Str(circuit, "ShortName"),
		GmtOffset:        gmtOffset,
		DateStart:        localToUTC(timing.Str(m, "StartDate"), offset),
		DateEnd:          localToUTC(timing.Str(m, "EndDate"), offset),
	}
	if ck, ok := timing.Int(circuit, "Key"); ok {
		doc.CircuitKey = ck
	}
	if start, err := timing.ParseTime(doc.DateStart); err == nil {
		doc.Year = start.Year()
	} else {
		doc.Year = msg.Timepoint.Year()
	}

	key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey)
	return []timing.Record{{Collection: "sessions", Key: key, Body: doc}}
}

// localToUTC applies a session's GMT offset to a feed-local timestamp
// string, returning a formatted UTC timestamp. Returns the input unchanged
// if it can't be parsed, since not every feed timestamp carries a timezone.
func localToUTC(local string, offset time.Duration) string {
	t, err := timing.ParseTime(local)
	if err != nil {
		return local
	}
	return t.Add(-offset).Format("2006-01-02T15:04:05.000Z")
}
