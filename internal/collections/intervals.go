package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newIntervalsProcessor(ctx) })
}

// IntervalsDocument records the live gap to the leader and to the car ahead.
// GapToLeader and Interval are float64 seconds for ordinary gaps, a string
// like "+1 LAP" when the feed can't express the gap numerically, or nil
// before the feed has reported anything for this driver yet.
type IntervalsDocument struct {
	MeetingKey   int    `json:"meeting_key"`
	SessionKey   int    `json:"session_key"`
	DriverNumber int    `json:"driver_number"`
	Date         string `json:"date"`
	GapToLeader  any    `json:"gap_to_leader"`
	Interval     any    `json:"interval"`
}

type intervalsProcessor struct {
	ctx Context
}

func newIntervalsProcessor(ctx Context) *intervalsProcessor {
	return &intervalsProcessor{ctx: ctx}
}

func (p *intervalsProcessor) Collection() string { return "intervals" }
func (p *intervalsProcessor) Topics() []string    { return []string{"DriverRaceInfo"} }

// Process reads DriverRaceInfo, a flat map keyed by driver number (unlike
// most other topics it carries no surrounding "Lines" wrapper).
func (p *intervalsProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}

	date := msg.Timepoint.Format("2006-01-02T15:04:05.000Z")
	var out []timing.Record
	for numStr, rawEntry := range m {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}

		gapRaw, hasGap := valueField(entry["Gap"])
		intervalRaw, hasInterval := valueField(entry["Interval"])
		if !hasGap && !hasInterval {
			continue
		}

		doc := IntervalsDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
			Date:         date,
		}
		if hasGap {
			doc.GapToLeader = timing.ParseTimeDelta(gapRaw)
		}
		if hasInterval {
			doc.Interval = timing.ParseTimeDelta(intervalRaw)
		}

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, msg.Timepoint)
		out = append(out, timing.Record{Collection: "intervals", Key: key, Body: doc})
	}
	return out
}

// valueField reads either a bare string field or a nested {"Value": "..."}
// object, both shapes the feed uses depending on the field.
func valueField(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case map[string]any:
		if s, ok := v["Value"].(string); ok {
			return s, true
		}
	}
	return "", false
}
