package query

import (
	"fmt"
	"regexp"
	"time"
)

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ExpandDateOnly rewrites predicates whose value is a bare calendar date
// (e.g. "2023-05-07", with no time component) into an explicit day-wide
// range. Every stored timestamp carries a time component, so a bare date
// could otherwise never match via direct comparison:
//
//	field=D   -> field>=D AND field<(D+1 day)
//	field<=D  -> field<(D+1 day)
//	field>D   -> field>=(D+1 day)
//	field<D, field>=D pass through unchanged: the boundary is already exact.
func ExpandDateOnly(predicates []Predicate) ([]Predicate, error) {
	out := make([]Predicate, 0, len(predicates))
	for _, p := range predicates {
		if !dateOnlyPattern.MatchString(p.Value) {
			out = append(out, p)
			continue
		}

		day, err := time.Parse("2006-01-02", p.Value)
		if err != nil {
			return nil, fmt.Errorf("query: invalid date %q: %w", p.Value, err)
		}
		next := day.AddDate(0, 0, 1).Format("2006-01-02")

		switch p.Op {
		case OpEqual:
			out = append(out,
				Predicate{Field: p.Field, Op: OpGreaterEqual, Value: p.Value},
				Predicate{Field: p.Field, Op: OpLess, Value: next},
			)
		case OpLessEqual:
			out = append(out, Predicate{Field: p.Field, Op: OpLess, Value: next})
		case OpGreater:
			out = append(out, Predicate{Field: p.Field, Op: OpGreaterEqual, Value: next})
		default: // OpLess, OpGreaterEqual
			out = append(out, p)
		}
	}
	return out, nil
}
