package collections

import (
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newCarDataProcessor(ctx) })
}

// CarDataDocument is one car telemetry sample (roughly 3.7Hz per car).
type CarDataDocument struct {
	MeetingKey   int     `json:"meeting_key"`
	SessionKey   int     `json:"session_key"`
	DriverNumber int     `json:"driver_number"`
	Date         string  `json:"date"`
	RPM          float64 `json:"rpm"`
	Speed        float64 `json:"speed"`
	NGear        int     `json:"n_gear"`
	Throttle     float64 `json:"throttle"`
	Brake        float64 `json:"brake"`
	DRS          int     `json:"drs"`
}

// carDataChannelKeys maps the feed's numeric channel IDs to fields.
const (
	channelRPM      = "0"
	channelSpeed    = "2"
	channelNGear    = "3"
	channelThrottle = "4"
	channelBrake    = "5"
	channelDRS      = "45"
)

type carDataProcessor struct {
	ctx Context
}

func newCarDataProcessor(ctx Context) *carDataProcessor {
	return &carDataProcessor{ctx: ctx}
}

func (p *carDataProcessor) Collection() string { return "car_data" }
func (p *carDataProcessor) Topics() []string    { return []string{"CarData.z"} }

func (p *carDataProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	entries, ok := timing.Slice(m["Entries"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for _, rawEntry := range entries {
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}
		date := timing.Str(entry, "Utc")
		cars, ok := timing.Map(entry["Cars"])
		if !ok {
			continue
		}
		for numStr, rawCar := range cars {
			num, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			car, ok := timing.Map(rawCar)
			if !ok {
				continue
			}
			channels, ok := timing.Map(car["Channels"])
			if !ok {
				continue
			}

			doc := CarDataDocument{
				MeetingKey:   p.ctx.MeetingKey,
				SessionKey:   p.ctx.SessionKey,
				DriverNumber: num,
				Date:         date,
			}
			doc.RPM, _ = timing.Float(channels, channelRPM)
			doc.Speed, _ = timing.Float(channels, channelSpeed)
			if g, ok := timing.Int(channels, channelNGear); ok {
				doc.NGear = g
			}
			doc.Throttle, _ = timing.Float(channels, channelThrottle)
			doc.Brake, _ = timing.Float(channels, channelBrake)
			if d, ok := timing.Int(channels, channelDRS); ok {
				doc.DRS = d
			}

			key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, date)
			out = append(out, timing.Record{Collection: "car_data", Key: key, Body: doc})
		}
	}
	return out
}
