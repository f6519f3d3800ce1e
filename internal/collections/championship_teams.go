package collections

import "github.com/tomtom215/f1telemetry/internal/timing"

func init() {
	Register(func(ctx Context) Processor { return newChampionshipTeamsProcessor(ctx) })
}

// ChampionshipTeamDocument is the live championship-standings prediction
// for one constructor.
type ChampionshipTeamDocument struct {
	MeetingKey      int    `json:"meeting_key"`
	SessionKey      int    `json:"session_key"`
	TeamName        string `json:"team_name"`
	PositionStart   int    `json:"position_start"`
	PositionCurrent int    `json:"position_current"`
	PointsStart     int    `json:"points_start"`
	PointsCurrent   int    `json:"points_current"`
}

type championshipTeamsProcessor struct {
	ctx Context
}

func newChampionshipTeamsProcessor(ctx Context) *championshipTeamsProcessor {
	return &championshipTeamsProcessor{ctx: ctx}
}

func (p *championshipTeamsProcessor) Collection() string { return "championship_teams" }
func (p *championshipTeamsProcessor) Topics() []string    { return []string{"ChampionshipPrediction"} }

func (p *championshipTeamsProcessor) Process(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	teams, ok := timing.Map(m["Teams"])
	if !ok {
		return nil
	}

	var out []timing.Record
	for name, rawEntry := range teams {
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}

		doc := ChampionshipTeamDocument{
			MeetingKey: p.ctx.MeetingKey,
			SessionKey: p.ctx.SessionKey,
			TeamName:   name,
		}
		doc.PositionStart, _ = timing.Int(entry, "CurrentPosition")
		doc.PositionCurrent, _ = timing.Int(entry, "PredictedPosition")
		doc.PointsStart, _ = timing.Int(entry, "CurrentPoints")
		doc.PointsCurrent, _ = timing.Int(entry, "PredictedPoints")

		key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, name)
		out = append(out, timing.Record{Collection: "championship_teams", Key: key, Body: doc})
	}
	return out
}
