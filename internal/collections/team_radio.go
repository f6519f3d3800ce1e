package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

const teamRadioBaseURL = "https://livetiming.formula1.com/static/"

func init() {
	Register(func(ctx Context) Processor { return newTeamRadioProcessor(ctx) })
}

// TeamRadioDocument is one team radio capture.
type TeamRadioDocument struct {
	MeetingKey   int    `json:"meeting_key"`
	SessionKey   int    `json:"session_key"`
	DriverNumber int    `json:"driver_number"`
	Date         string `json:"date"`
	RecordingURL string `json:"recording_url"`
}

type teamRadioProcessor struct {
	ctx         Context
	sessionPath string
}

func newTeamRadioProcessor(ctx Context) *teamRadioProcessor {
	return &teamRadioProcessor{ctx: ctx}
}

func (p *teamRadioProcessor) Collection() string { return "team_radio" }
func (p *teamRadioProcessor) Topics() []string    { return []string{"SessionInfo", "TeamRadio"} }

func (p *teamRadioProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}

	if msg.Topic == "SessionInfo" {
		p.sessionPath = timing.Str(m, "Path")
		return nil
	}

	captures, ok := timing.Slice(m["Captures"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for _, raw := range captures {
		c, ok := timing.Map(raw)
		if !ok {
			continue
		}
		num, err := strconv.Atoi(timing.Str(c, "RacingNumber"))
		if err != nil {
			continue
		}
		path := timing.Str(c, "Path")
		date := timing.Str(c, "Utc")

		doc := TeamRadioDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
			Date:         date,
			RecordingURL: teamRadioBaseURL + p.sessionPath + path,
		}

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, date)
		out = append(out, timing.Record{Collection: "team_radio", Key: key, Body: doc})
	}
	return out
}
