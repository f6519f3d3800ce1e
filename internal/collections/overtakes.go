package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newOvertakesProcessor(ctx) })
}

// OvertakesDocument records one overtake. It stores a single position:
// the event's reported Position minus one, the place one ahead of the
// overtaken car. The overtaken driver's own position is not stored.
type OvertakesDocument struct {
	MeetingKey        int    `json:"meeting_key"`
	SessionKey        int    `json:"session_key"`
	Date              string `json:"date"`
	OvertakingDriver  int    `json:"overtaking_driver_number"`
	OvertakenDriver   int    `json:"overtaken_driver_number"`
	Position          int    `json:"position"`
}

// overtakeStateOvertaking is the feed's sentinel value identifying which
// side of an overtake record is the car that gained position.
const overtakeStateOvertaking = 2

type overtakesProcessor struct {
	ctx Context
}

func newOvertakesProcessor(ctx Context) *overtakesProcessor {
	return &overtakesProcessor{ctx: ctx}
}

func (p *overtakesProcessor) Collection() string { return "overtakes" }
func (p *overtakesProcessor) Topics() []string    { return []string{"Overtakes"} }

func (p *overtakesProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	events, ok := timing.Slice(m["Overtakes"])
	if !ok {
		return nil
	}

	date := msg.Timepoint.Format("2006-01-02T15:04:05.000Z")
	var out []timing.Record
	for _, rawEvent := range events {
		event, ok := timing.Map(rawEvent)
		if !ok {
			continue
		}
		state, _ := timing.Int(event, "OvertakeState")
		position, _ := timing.Int(event, "Position")

		overtaking, overtaken := driverPair(event, state)
		if overtaking == 0 || overtaken == 0 {
			continue
		}

		doc := OvertakesDocument{
			MeetingKey:       p.ctx.MeetingKey,
			SessionKey:       p.ctx.SessionKey,
			Date:             date,
			OvertakingDriver: overtaking,
			OvertakenDriver:  overtaken,
			Position:         position - 1,
		}
		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, overtaking, overtaken, msg.Timepoint)
		out = append(out, timing.Record{Collection: "overtakes", Key: key, Body: doc})
	}
	return out
}

// driverPair resolves which of the event's two driver fields gained
// position, based on which side carries the overtaking state.
func driverPair(event map[string]any, state int) (overtaking, overtaken int) {
	a, _ := strconv.Atoi(timing.Str(event, "OvertakingDriver"))
	b, _ := strconv.Atoi(timing.Str(event, "OvertakenDriver"))
	if state == overtakeStateOvertaking {
		return a, b
	}
	return b, a
}
