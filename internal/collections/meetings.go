package collections

import "github.com/tomtom215/f1telemetry/internal/timing"

func init() {
	Register(func(ctx Context) Processor { return newMeetingsProcessor(ctx) })
}

// MeetingDocument describes one grand prix weekend (a meeting spans
// multiple sessions).
type MeetingDocument struct {
	MeetingKey       int    `json:"meeting_key"`
	MeetingName      string `json:"meeting_name"`
	MeetingOfficial  string `json:"meeting_official_name"`
	Location         string `json:"location"`
	CountryKey       int    `json:"country_key"`
	CountryCode      string `json:"country_code"`
	CountryName      string `json:"country_name"`
	CircuitKey       int    `json:"circuit_key"`
	CircuitShortName string `json:"circuit_short_name"`
	DateStart        string `json:"date_start"`
	GmtOffset        string `json:"gmt_offset"`
	Year             int    `json:"year"`
}

type meetingsProcessor struct {
	ctx Context
}

func newMeetingsProcessor(ctx Context) *meetingsProcessor {
	return &meetingsProcessor{ctx: ctx}
}

func (p *meetingsProcessor) Collection() string { return "meetings" }
func (p *meetingsProcessor) Topics() []string    { return []string{"SessionInfo"} }

func (p *meetingsProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	meeting, _ := timing.Map(m["Meeting"])
	country, _ := timing.Map(meeting["Country"])
	circuit, _ := timing.Map(meeting["Circuit"])

	gmtOffset := timing.Str(m, "GmtOffset")
	offset, _ := timing.ParseGMTOffset(gmtOffset)

	doc := MeetingDocument{
		MeetingKey:       p.ctx.MeetingKey,
		MeetingName:      timing.Str(meeting, "Name"),
		MeetingOfficial:  timing.Str(meeting, "OfficialName"),
		Location:         timing.Str(meeting, "Location"),
		CountryCode:      timing.Str(country, "Code"),
		CountryName:      timing.Str(country, "Name"),
		CircuitShortName: timing.Str(circuit, "ShortName"),
		GmtOffset:        gmtOffset,
		DateStart:        localToUTC(timing.Str(m, "StartDate"), offset),
	}
	if ck, ok := timing.Int(country, "Key"); ok {
		doc.CountryKey = ck
	}
	if ck, ok := timing.Int(circuit, "Key"); ok {
		doc.CircuitKey = ck
	}
	if start, err := timing.ParseTime(doc.DateStart); err == nil {
		doc.Year = start.Year()
	} else {
		doc.Year = msg.Timepoint.Year()
	}

	key := timing.FormatKey(p.ctx.MeetingKey)
	return []timing.Record{{Collection: "meetings", Key: key, Body: doc}}
}
