package collections

import (
	"reflect"
	"strconv"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newDriversProcessor(ctx) })
}

// DriverDocument is the roster entry for one driver in one session. Fields
// renamed from the feed's own naming (RacingNumber -> DriverNumber, etc.)
// to the collection's public schema.
type DriverDocument struct {
	MeetingKey    int    `json:"meeting_key"`
	SessionKey    int    `json:"session_key"`
	DriverNumber  int    `json:"driver_number"`
	BroadcastName string `json:"broadcast_name"`
	FullName      string `json:"full_name"`
	NameAcronym   string `json:"name_acronym"`
	TeamName      string `json:"team_name"`
	TeamColour    string `json:"team_colour"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	CountryCode   string `json:"country_code"`
	HeadshotURL   string `json:"headshot_url"`
}

// driversKeyMapping renames feed field names to this collection's schema.
var driversKeyMapping = map[string]string{
	"RacingNumber":  "driver_number",
	"BroadcastName": "broadcast_name",
	"FullName":      "full_name",
	"Tla":           "name_acronym",
	"TeamName":      "team_name",
	"TeamColour":    "team_colour",
	"FirstName":     "first_name",
	"LastName":      "last_name",
	"CountryCode":   "country_code",
	"HeadshotUrl":   "headshot_url",
}

type driversProcessor struct {
	ctx  Context
	last map[int]map[string]any
}

func newDriversProcessor(ctx Context) *driversProcessor {
	return &driversProcessor{ctx: ctx, last: make(map[int]map[string]any)}
}

func (p *driversProcessor) Collection() string { return "drivers" }
func (p *driversProcessor) Topics() []string    { return []string{"DriverList"} }

func (p *driversProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}

	var out []timing.Record
	for numStr, raw := range m {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		entry, ok := timing.Map(raw)
		if !ok {
			continue
		}

		renamed := make(map[string]any, len(entry))
		for feedKey, v := range entry {
			if schemaKey, known := driversKeyMapping[feedKey]; known {
				renamed[schemaKey] = v
			}
		}

		if prev, seen := p.last[num]; seen && reflect.DeepEqual(prev, renamed) {
			continue
		}
		p.last[num] = renamed

		doc := DriverDocument{
			MeetingKey:    p.ctx.MeetingKey,
			SessionKey:    p.ctx.SessionKey,
			DriverNumber:  num,
			BroadcastName: str(renamed, "broadcast_name"),
			FullName:      str(renamed, "full_name"),
			NameAcronym:   str(renamed, "name_acronym"),
			TeamName:      str(renamed, "team_name"),
			TeamColour:    str(renamed, "team_colour"),
			FirstName:     str(renamed, "first_name"),
			LastName:      str(renamed, "last_name"),
			CountryCode:   str(renamed, "country_code"),
			HeadshotURL:   str(renamed, "headshot_url"),
		}

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num)
		out = append(out, timing.Record{Collection: "drivers", Key: key, Body: doc})
	}
	return out
}

func str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
