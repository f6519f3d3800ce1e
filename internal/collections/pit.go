package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newPitProcessor(ctx) })
}

// PitDocument is one pit stop. LaneDuration is time in the pit lane;
// StopDuration is the narrower time stationary in the pit box. Only
// PitStopSeries reports StopDuration — PitLaneTimeCollection never does.
type PitDocument struct {
	MeetingKey   int      `json:"meeting_key"`
	SessionKey   int      `json:"session_key"`
	DriverNumber int      `json:"driver_number"`
	LapNumber    int      `json:"lap_number"`
	Date         string   `json:"date"`
	LaneDuration *float64 `json:"lane_duration"`
	StopDuration *float64 `json:"stop_duration"`
}

// pit has two source topics of differing authority: PitStopSeries is the
// feed's own finalized pit-stop record and always overwrites;
// PitLaneTimeCollection is an earlier, less precise estimate and is only
// used to fill in a pit stop PitStopSeries hasn't reported yet.
type pitProcessor struct {
	ctx       Context
	confirmed map[string]bool
}

func newPitProcessor(ctx Context) *pitProcessor {
	return &pitProcessor{ctx: ctx, confirmed: make(map[string]bool)}
}

func (p *pitProcessor) Collection() string { return "pit" }
func (p *pitProcessor) Topics() []string {
	return []string{"PitStopSeries", "PitLaneTimeCollection"}
}

func (p *pitProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}

	switch msg.Topic {
	case "PitStopSeries":
		return p.processSeries(msg, m)
	case "PitLaneTimeCollection":
		return p.processFallback(msg, m)
	default:
		return nil
	}
}

// processSeries reads PitStopSeries.PitTimes, a map keyed by driver number
// whose values hold a nested "PitStop" object with the actual lap/duration
// fields.
func (p *pitProcessor) processSeries(msg timing.Message, m map[string]any) []timing.Record {
	times, ok := timing.Map(m["PitTimes"])
	if !ok {
		return nil
	}
	var out []timing.Record
	for numStr, rawEntry := range times {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}
		pitStop, ok := timing.Map(entry["PitStop"])
		if !ok {
			continue
		}

		lap, ok := timing.Int(pitStop, "Lap")
		if !ok {
			continue
		}
		laneDuration := floatPtr(pitStop, "PitLaneTime")
		stopDuration := floatPtr(pitStop, "PitStopTime")

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, lap)
		p.confirmed[key] = true

		doc := PitDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
			LapNumber:    lap,
			Date:         msg.Timepoint.Format("2006-01-02T15:04:05.000Z"),
			LaneDuration: laneDuration,
			StopDuration: stopDuration,
		}
		out = append(out, timing.Record{Collection: "pit", Key: key, Body: doc})
	}
	return out
}

// processFallback reads PitLaneTimeCollection.Lines, used only when
// PitStopSeries hasn't confirmed a pit stop yet. Its duration field is
// "Duration", not "PitLaneTime" (that name belongs to PitStopSeries'
// nested PitStop object).
func (p *pitProcessor) processFallback(msg timing.Message, m map[string]any) []timing.Record {
	lines, ok := timing.Map(m["Lines"])
	if !ok {
		return nil
	}
	var out []timing.Record
	for numStr, rawLine := range lines {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		line, ok := timing.Map(rawLine)
		if !ok {
			continue
		}
		lap, lapOK := timing.Int(line, "Lap")
		if !lapOK {
			continue
		}
		laneDuration := floatPtr(line, "Duration")

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, lap)
		if p.confirmed[key] {
			continue
		}

		doc := PitDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
			LapNumber:    lap,
			Date:         msg.Timepoint.Format("2006-01-02T15:04:05.000Z"),
			LaneDuration: laneDuration,
		}
		out = append(out, timing.Record{Collection: "pit", Key: key, Body: doc})
	}
	return out
}

func floatPtr(m map[string]any, field string) *float64 {
	v, ok := timing.Float(m, field)
	if !ok {
		return nil
	}
	return &v
}
