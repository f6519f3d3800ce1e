package collections

import (
	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newWeatherProcessor(ctx) })
}

// WeatherDocument is one weather sample, emitted roughly once per minute.
type WeatherDocument struct {
	MeetingKey    int     `json:"meeting_key"`
	SessionKey    int     `json:"session_key"`
	Date          string  `json:"date"`
	AirTemp       float64 `json:"air_temperature"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	Rainfall      float64 `json:"rainfall"`
	TrackTemp     float64 `json:"track_temperature"`
	WindDirection float64 `json:"wind_direction"`
	WindSpeed     float64 `json:"wind_speed"`
}

type weatherProcessor struct {
	ctx Context
}

func newWeatherProcessor(ctx Context) *weatherProcessor {
	return &weatherProcessor{ctx: ctx}
}

func (p *weatherProcessor) Collection() string { return "weather" }
func (p *weatherProcessor) Topics() []string    { return []string{"WeatherData"} }

func (p *weatherProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}

	doc := WeatherDocument{
		MeetingKey: p.ctx.MeetingKey,
		SessionKey: p.ctx.SessionKey,
		Date:       msg.Timepoint.Format("2006-01-02T15:04:05.000Z"),
	}
	doc.AirTemp, _ = timing.Float(m, "AirTemp")
	doc.Humidity, _ = timing.Float(m, "Humidity")
	doc.Pressure, _ = timing.Float(m, "Pressure")
	doc.Rainfall, _ = timing.Float(m, "Rainfall")
	doc.TrackTemp, _ = timing.Float(m, "TrackTemp")
	doc.WindDirection, _ = timing.Float(m, "WindDirection")
	doc.WindSpeed, _ = timing.Float(m, "WindSpeed")

	key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, msg.Timepoint)
	return []timing.Record{{Collection: "weather", Key: key, Body: doc}}
}
