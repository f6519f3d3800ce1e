package timing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field extraction helpers over the map[string]any shape produced by
// Decode. The feed is untyped JSON; every processor needs to pull typed
// values out of it defensively, so these live here once instead of being
// re-implemented per collection.

// Map asserts v is a JSON object.
func Map(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Slice asserts v is a JSON array.
func Slice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Str reads a string field, returning "" if absent or of the wrong type.
func Str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// Float reads a numeric field as float64. Accepts JSON numbers and numeric
// strings, since the feed is inconsistent about quoting numbers.
func Float(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int reads a numeric field as int.
func Int(m map[string]any, key string) (int, bool) {
	f, ok := Float(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool reads a boolean field.
func Bool(m map[string]any, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

// knownTimeLayouts are the timestamp shapes observed on the feed, tried in
// order. Most timing messages use a bare "HH:MM:SS.mmm" offset relative to
// session start instead of a wall-clock date; callers combine that with a
// session's known start time where needed (see the laps/intervals
// processors), so ParseTime only handles genuine wall-clock stamps.
var knownTimeLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseTime parses a feed wall-clock timestamp as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range knownTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timing: unrecognized timestamp %q", s)
}

// ParseGMTOffset parses a session's "GMT offset" field, formatted as
// "[+-]HH:MM:SS", into a signed duration east of UTC.
func ParseGMTOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) == 0 {
		return 0, fmt.Errorf("timing: bad GMT offset %q", s)
	}
	var h, m, sec int
	var err error
	if h, err = strconv.Atoi(parts[0]); err != nil {
		return 0, fmt.Errorf("timing: bad GMT offset %q: %w", s, err)
	}
	if len(parts) > 1 {
		if m, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("timing: bad GMT offset %q: %w", s, err)
		}
	}
	if len(parts) > 2 {
		if sec, err = strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("timing: bad GMT offset %q: %w", s, err)
		}
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	if neg {
		d = -d
	}
	return d, nil
}

// ParseLapDuration converts the feed's lap/sector/interval time strings
// into seconds. Handles plain "SS.sss", "M:SS.sss", the sentinel "LAP"
// (meaning zero gap — the car is exactly a lap down), and leaves anything
// else (like "+1 LAP") as a non-numeric passthrough signaled by ok=false.
func ParseLapDuration(s string) (seconds float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.EqualFold(s, "LAP") {
		return 0, true
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ":")
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	if neg {
		total = -total
	}
	return total, true
}

// ParseTimeDelta converts an interval/gap string into either a float64
// seconds value or, for multi-lap gaps the feed can't express numerically
// ("+1 LAP", "+2 LAPS"), the original string unchanged. The bare sentinel
// "LAP" (a car exactly one lap down with no finer gap available) collapses
// to 0.0, matching the upstream feed's own convention.
func ParseTimeDelta(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.EqualFold(s, "LAP") {
		return 0.0
	}
	if strings.Contains(strings.ToUpper(s), "LAP") {
		return s
	}
	if v, ok := ParseLapDuration(s); ok {
		return v
	}
	return s
}
