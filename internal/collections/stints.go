package collections

import (
	"strconv"
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

func init() {
	Register(func(ctx Context) Processor { return newStintsProcessor(ctx) })
}

// StintDocument is one tyre stint for one driver. Stint numbers are dense
// per driver, starting at 1; lap_start of a stint is always lap_end+1 of
// the previous stint (or 1 for the driver's first stint).
type StintDocument struct {
	MeetingKey     int    `json:"meeting_key"`
	SessionKey     int    `json:"session_key"`
	DriverNumber   int    `json:"driver_number"`
	StintNumber    int    `json:"stint_number"`
	Compound       string `json:"compound"`
	TyreAgeAtStart int    `json:"tyre_age_at_start"`
	LapStart       int    `json:"lap_start"`
	LapEnd         int    `json:"lap_end"`
}

type driverStints struct {
	stints []*StintDocument
	// byIndex tracks which of the feed's own stint slots (it sometimes
	// indexes by array position, sometimes by a string key) we've already
	// assigned a dense stint number to.
	byIndex map[string]*StintDocument
	// lastLapBump is the timestamp of the most recent TimingData.NumberOfLaps
	// update, used only by the ≤10s stint-boundary correction below.
	lastLapBump time.Time
}

type stintsProcessor struct {
	ctx   Context
	state map[int]*driverStints
}

func newStintsProcessor(ctx Context) *stintsProcessor {
	return &stintsProcessor{ctx: ctx, state: make(map[int]*driverStints)}
}

func (p *stintsProcessor) Collection() string { return "stints" }
func (p *stintsProcessor) Topics() []string {
	return []string{"TimingAppData", "TimingData"}
}

func (p *stintsProcessor) Process(msg timing.Message) []timing.Record {
	switch msg.Topic {
	case "TimingAppData":
		return p.processTimingAppData(msg)
	case "TimingData":
		return p.processTimingData(msg)
	default:
		return nil
	}
}

func (p *stintsProcessor) processTimingAppData(msg timing.Message) []timing.Record {
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
		stintsRaw, ok := line["Stints"]
		if !ok {
			continue
		}
		entries := normalizeStints(stintsRaw)
		if len(entries) == 0 {
			continue
		}

		ds := p.state[num]
		if ds == nil {
			ds = &driverStints{byIndex: make(map[string]*StintDocument)}
			p.state[num] = ds
		}

		for _, e := range entries {
			existing, seen := ds.byIndex[e.index]
			var stint *StintDocument
			if seen {
				stint = existing
			} else {
				prev := lastStint(ds)
				// A new stint announced within lapLateArrivalWindow of the
				// previous stint's last lap bump means that bump actually
				// belonged to the new stint: the previous stint's lap_end
				// was counted one lap too many.
				if prev != nil && !ds.lastLapBump.IsZero() && msg.Timepoint.Sub(ds.lastLapBump) <= lapLateArrivalWindow {
					if prev.LapEnd > prev.LapStart {
						prev.LapEnd--
						out = append(out, p.emitStint(num, prev))
					}
				}
				lapStart := 1
				if prev != nil {
					lapStart = prev.LapEnd + 1
				}
				stint = &StintDocument{
					MeetingKey:   p.ctx.MeetingKey,
					SessionKey:   p.ctx.SessionKey,
					DriverNumber: num,
					StintNumber:  len(ds.stints) + 1,
					LapStart:     lapStart,
				}
				ds.stints = append(ds.stints, stint)
				ds.byIndex[e.index] = stint
			}

			if e.compound != "" {
				stint.Compound = e.compound
			}
			if e.totalLaps >= 0 {
				stint.TyreAgeAtStart = e.totalLaps
			}

			out = append(out, p.emitStint(num, stint))
		}
	}
	return out
}

// processTimingData keeps the current stint's lap_end in step with the
// feed's own lap counter.
func (p *stintsProcessor) processTimingData(msg timing.Message) []timing.Record {
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
		n, ok := timing.Int(line, "NumberOfLaps")
		if !ok {
			continue
		}

		ds := p.state[num]
		if ds == nil {
			ds = &driverStints{byIndex: make(map[string]*StintDocument)}
			p.state[num] = ds
		}
		if len(ds.stints) == 0 {
			stint := &StintDocument{
				MeetingKey:   p.ctx.MeetingKey,
				SessionKey:   p.ctx.SessionKey,
				DriverNumber: num,
				StintNumber:  1,
				LapStart:     1,
			}
			ds.stints = append(ds.stints, stint)
		}

		stint := ds.stints[len(ds.stints)-1]
		if stint.LapStart == 0 {
			stint.LapStart = n
		}
		stint.LapEnd = n
		ds.lastLapBump = msg.Timepoint

		out = append(out, p.emitStint(num, stint))
	}
	return out
}

func lastStint(ds *driverStints) *StintDocument {
	if len(ds.stints) == 0 {
		return nil
	}
	return ds.stints[len(ds.stints)-1]
}

func (p *stintsProcessor) emitStint(num int, stint *StintDocument) timing.Record {
	key := timing.FormatKey(p.ctx.MeetingKey, p.ctx.SessionKey, num, stint.StintNumber)
	cp := *stint
	return timing.Record{Collection: "stints", Key: key, Body: cp}
}

type stintEntry struct {
	index     string
	compound  string
	totalLaps int
}

// normalizeStints handles the feed's inconsistent encoding of a driver's
// Stints field: sometimes a JSON array (index = position), sometimes an
// object keyed by stint index as a string.
func normalizeStints(raw any) []stintEntry {
	var out []stintEntry
	switch v := raw.(type) {
	case []any:
		for i, rawEntry := range v {
			if e, ok := toStintEntry(strconv.Itoa(i), rawEntry); ok {
				out = append(out, e)
			}
		}
	case map[string]any:
		for idx, rawEntry := range v {
			if e, ok := toStintEntry(idx, rawEntry); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

func toStintEntry(index string, raw any) (stintEntry, bool) {
	m, ok := timing.Map(raw)
	if !ok {
		return stintEntry{}, false
	}
	e := stintEntry{index: index, totalLaps: -1}
	e.compound = timing.Str(m, "Compound")
	if v, ok := timing.Int(m, "TotalLaps"); ok {
		e.totalLaps = v
	}
	return e, true
}
