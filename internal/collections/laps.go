package collections

import (
	"strconv"
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newLapsProcessor(ctx) })
}

// LapDocument is one completed lap, built up incrementally as its three
// sector times arrive and finalized when the feed's lap counter advances.
type LapDocument struct {
	MeetingKey     int      `json:"meeting_key"`
	SessionKey     int      `json:"session_key"`
	DriverNumber   int      `json:"driver_number"`
	LapNumber      int      `json:"lap_number"`
	DateStart      string   `json:"date_start"`
	LapDuration    *float64 `json:"lap_duration"`
	DurationSector1 *float64 `json:"duration_sector_1"`
	DurationSector2 *float64 `json:"duration_sector_2"`
	DurationSector3 *float64 `json:"duration_sector_3"`
	IsPitOutLap    bool     `json:"is_pit_out_lap"`
}

// lapLateArrivalWindow is how long after a lap completes a straggling
// sector-2 or sector-3 time for that lap is still accepted, rather than being
// attributed to the new, just-started lap.
const lapLateArrivalWindow = 10 * time.Second

type driverLapState struct {
	laps        []*LapDocument
	lapNumber   int
	lastAdvance time.Time
	sessionLive bool
}

type lapsProcessor struct {
	ctx         Context
	isRace      bool
	sessionedAt time.Time
	state       map[int]*driverLapState
}

func newLapsProcessor(ctx Context) *lapsProcessor {
	return &lapsProcessor{ctx: ctx, state: make(map[int]*driverLapState)}
}

func (p *lapsProcessor) Collection() string { return "laps" }
func (p *lapsProcessor) Topics() []string {
	return []string{"TimingData", "SessionData", "SessionInfo"}
}

func (p *lapsProcessor) Process(msg timing.Message) []timing.Record {
	switch msg.Topic {
	case "SessionInfo":
		return p.processSessionInfo(msg)
	case "SessionData":
		return p.processSessionData(msg)
	case "TimingData":
		return p.processTimingData(msg)
	default:
		return nil
	}
}

func (p *lapsProcessor) processSessionInfo(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if ok {
		p.isRace = timing.Str(m, "Type") == "Race"
	}
	return nil
}

// processSessionData watches for the "Started" track-status transition so
// a race's first lap (which has no preceding lap-counter increment to mark
// its start) can still be given a date_start.
func (p *lapsProcessor) processSessionData(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	series, ok := timing.Slice(m["StatusSeries"])
	if !ok {
		return nil
	}
	for _, rawEntry := range series {
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}
		if timing.Str(entry, "SessionStatus") == "Started" || timing.Str(entry, "TrackStatus") == "Started" {
			if p.sessionedAt.IsZero() {
				p.sessionedAt = msg.Timepoint
			}
		}
	}
	return nil
}

func (p *lapsProcessor) processTimingData(msg timing.Message) []timing.Record {
	m, ok := timing.Map(msg.Content)
	if !ok {
		return nil
	}
	lines, ok := timing.Map(m["Lines"])
	if !ok {
		return nil
	}

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

		ds := p.state[num]
		if ds == nil {
			ds = &driverLapState{lapNumber: 0}
			p.state[num] = ds
			ds.laps = append(ds.laps, &LapDocument{
				MeetingKey:   p.ctx.MeetingKey,
				SessionKey:   p.ctx.SessionKey,
				DriverNumber: num,
				LapNumber:    1,
			})
			if p.isRace && !p.sessionedAt.IsZero() {
				ds.laps[0].DateStart = p.sessionedAt.Format("2006-01-02T15:04:05.000Z")
			}
		}

		p.applySectors(ds, line, msg.Timepoint)
		out = append(out, p.applyLapAdvance(ds, line, msg.Timepoint, num)...)
	}
	return out
}

// applySectors folds in any sector times this message carries, returning
// nothing itself: the affected lap is re-emitted by whichever of
// applySectors/applyLapAdvance last touches it, via emitOne below.
func (p *lapsProcessor) applySectors(ds *driverLapState, line map[string]any, ts time.Time) {
	sectorsRaw, ok := line["Sectors"]
	if !ok {
		return
	}
	sectors := normalizeSectors(sectorsRaw)

	current := ds.laps[len(ds.laps)-1]
	late := len(ds.laps) >= 2 && !ds.lastAdvance.IsZero() && ts.Sub(ds.lastAdvance) < lapLateArrivalWindow

	for idx, v := range sectors {
		target := current
		// Only sectors 2/3 (idx > 0) can belong to a lap that just finished:
		// sector 1 always starts the new lap, so it never gets redirected.
		if idx > 0 && late {
			prev := ds.laps[len(ds.laps)-2]
			if prev.DurationSector3 == nil {
				target = prev
			}
		}
		switch idx {
		case 0:
			target.DurationSector1 = v
		case 1:
			target.DurationSector2 = v
		case 2:
			target.DurationSector3 = v
		}
		p.finalizeDuration(target)
	}
}

func (p *lapsProcessor) applyLapAdvance(ds *driverLapState, line map[string]any, ts time.Time, num int) []timing.Record {
	n, ok := timing.Int(line, "NumberOfLaps")
	if !ok {
		return []timing.Record{p.emitOne(ds.laps[len(ds.laps)-1])}
	}
	if p.isRace {
		n++
	}
	if n <= ds.lapNumber {
		return []timing.Record{p.emitOne(ds.laps[len(ds.laps)-1])}
	}

	completed := ds.laps[len(ds.laps)-1]
	if lastLap, ok := timing.Map(line["LastLapTime"]); ok {
		if v, ok := timing.Float(lastLap, "Value"); ok {
			completed.LapDuration = &v
		} else if s, ok := lastLap["Value"].(string); ok {
			if parsed, ok := timing.ParseLapDuration(s); ok {
				completed.LapDuration = &parsed
			}
		}
	}
	p.finalizeDuration(completed)

	ds.lapNumber = n
	ds.lastAdvance = ts
	next := &LapDocument{
		MeetingKey:   p.ctx.MeetingKey,
		SessionKey:   p.ctx.SessionKey,
		DriverNumber: num,
		LapNumber:    n,
		DateStart:    ts.Format("2006-01-02T15:04:05.000Z"),
	}
	ds.laps = append(ds.laps, next)

	out := []timing.Record{p.emitOne(completed)}

	// Backfill lap 1's start from lap 2's, now that lap 2 has a timestamp
	// and lap 1's duration (if known).
	if n == 2 && ds.laps[0].DateStart == "" && ds.laps[0].LapDuration != nil {
		if start, err := timing.ParseTime(next.DateStart); err == nil {
			backfilled := start.Add(-time.Duration(*ds.laps[0].LapDuration * float64(time.Second)))
			ds.laps[0].DateStart = backfilled.Format("2006-01-02T15:04:05.000Z")
			out = append(out, p.emitOne(ds.laps[0]))
		}
	}

	return append(out, p.emitOne(next))
}

// finalizeDuration infers a lap's duration from its three sectors when the
// feed never reported LastLapTime directly.
func (p *lapsProcessor) finalizeDuration(lap *LapDocument) {
	if lap.LapDuration != nil {
		return
	}
	if lap.DurationSector1 == nil || lap.DurationSector2 == nil || lap.DurationSector3 == nil {
		return
	}
	total := *lap.DurationSector1 + *lap.DurationSector2 + *lap.DurationSector3
	lap.LapDuration = &total
}

func (p *lapsProcessor) emitOne(lap *LapDocument) timing.Record {
	key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, lap.DriverNumber, lap.LapNumber)
	cp := *lap
	return timing.Record{Collection: "laps", Key: key, Body: cp}
}

func normalizeSectors(raw any) map[int]*float64 {
	out := make(map[int]*float64)
	var entries map[string]any
	switch v := raw.(type) {
	case map[string]any:
		entries = v
	default:
		return out
	}
	for idxStr, rawEntry := range entries {
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx > 2 {
			continue
		}
		entry, ok := timing.Map(rawEntry)
		if !ok {
			continue
		}
		s, ok := entry["Value"].(string)
		if !ok || s == "" {
			continue
		}
		v, ok := timing.ParseLapDuration(s)
		if !ok {
			continue
		}
		out[idx] = &v
	}
	return out
}
