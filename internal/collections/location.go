package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newLocationProcessor(ctx) })
}

// LocationDocument is one car's 3D position sample on the circuit-local
// coordinate system (not GPS).
type LocationDocument struct {
	MeetingKey   int    `json:"meeting_key"`
	SessionKey   int    `json:"session_key"`
	DriverNumber int    `json:"driver_number"`
	Date         string `json:"date"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Z            int    `json:"z"`
}

type locationProcessor struct {
	ctx Context
}

func newLocationProcessor(ctx Context) *locationProcessor {
	return &locationProcessor{ctx: ctx}
}

func (p *locationProcessor) Collection() string { return "location" }
func (p *locationProcessor) Topics() []string    { return []string{"Position.z"} }

func (p *locationProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	positions, ok := timing.Slice(m["Position"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for _, rawSnapshot := range positions {
		snapshot, ok := timing.Map(rawSnapshot)
		if !ok {
			continue
		}
		date := timing.Str(snapshot, "Timestamp")
		entries, ok := timing.Map(snapshot["Entries"])
		if !ok {
			continue
		}
		for numStr, rawCar := range entries {
			num, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			car, ok := timing.Map(rawCar)
			if !ok {
				continue
			}

			doc := LocationDocument{
				MeetingKey:   p.ctx.MeetingKey,
				SessionKey:   p.ctx.SessionKey,
				DriverNumber: num,
				Date:         date,
			}
			if x, ok := timing.Int(car, "X"); ok {
				doc.X = x
			}
			if y, ok := timing.Int(car, "Y"); ok {
				doc.Y = y
			}
			if z, ok := timing.Int(car, "Z"); ok {
				doc.Z = z
			}

			key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, date)
			out = append(out, timing.Record{Collection: "location", Key: key, Body: doc})
		}
	}
	return out
}
