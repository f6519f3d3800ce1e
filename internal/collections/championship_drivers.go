package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newChampionshipDriversProcessor(ctx) })
}

// ChampionshipDriverDocument is the live championship-standings prediction
// for one driver, recomputed whenever the feed publishes a new forecast.
type ChampionshipDriverDocument struct {
	MeetingKey      int `json:"meeting_key"`
	SessionKey      int `json:"session_key"`
	DriverNumber    int `json:"driver_number"`
	PositionStart   int `json:"position_start"`
	PositionCurrent int `json:"position_current"`
	PointsStart     int `json:"points_start"`
	PointsCurrent   int `json:"points_current"`
}

type championshipDriversProcessor struct {
	ctx Context
}

func newChampionshipDriversProcessor(ctx Context) *championshipDriversProcessor {
	return &championshipDriversProcessor{ctx: ctx}
}

func (p *championshipDriversProcessor) Collection() string { return "championship_drivers" }
func (p *championshipDriversProcessor) Topics() []string    { return []string{"ChampionshipPrediction"} }

func (p *championshipDriversProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	drivers, ok := timing.Map(m["Drivers"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for numStr, rawEntry := range drivers {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}

		doc := ChampionshipDriverDocument{
			MeetingKey:   p.ctx.MeetingKey,
			SessionKey:   p.ctx.SessionKey,
			DriverNumber: num,
		}
		doc.PositionStart, _ = timing.Int(entry, "CurrentPosition")
		doc.PositionCurrent, _ = timing.Int(entry, "PredictedPosition")
		doc.PointsStart, _ = timing.Int(entry, "CurrentPoints")
		doc.PointsCurrent, _ = timing.Int(entry, "PredictedPoints")

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num)
		out = append(out, timing.Record{Collection: "championship_drivers", Key: key, Body: doc})
	}
	return out
}
