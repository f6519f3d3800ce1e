package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newPositionProcessor(ctx) })
}

// PositionDocument records a driver's classification position (not
// physical location) at the moment it changed.
type PositionDocument struct {
	MeetingKey   int    `json:"meeting_key"`
	SessionKey   int    `json:"session_key"`
	DriverNumber int    `json:"driver_number"`
	Date         string `json:"date"`
	Position     int    `json:"position"`
}

type positionProcessor struct {
	ctx  Context
	last map[int]int
}

func newPositionProcessor(ctx Context) *positionProcessor {
	return &positionProcessor{ctx: ctx, last: make(map[int]int)}
}

func (p *positionProcessor) Collection() string { return "position" }
func (p *positionProcessor) Topics() []string    { return []string{"TimingData"} }

func (p *positionProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	lines, ok := timing.Map(m["Lines"])
	if !ok {
		return nil
	}

	date := msg.Timepoint.Format("2006-01-02T15:04:05.000Z")
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
		posStr, ok := line["Position"].(string)
		if !ok {
			continue
		}
		pos, err := strconv.Atoi(posStr)
		if err != nil {
			continue
		}
		if prev, seen := p.last[num]; seen && prev == pos {
			continue
		}
		p.last[num] = pos

		doc := PositionDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
			Date:         date,
			Position:     pos,
		}
		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, msg.Timepoint)
		out = append(out, timing.Record{Collection: "position", Key: key, Body: doc})
	}
	return out
}
