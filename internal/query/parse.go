// Package query implements the HTTP query surface's URL grammar: parsing
// "field<op>value" predicates out of a raw query string (the operator is
// embedded in the parameter itself, not a normal key=value pair, so the
// standard library's query parsing can't be used directly) and compiling
// them into a SQL WHERE fragment against the document store.
package query

import (
	"fmt"
	"net/url"
	"strings"
)

// Op is a comparison operator recognized in the URL grammar.
type Op string

const (
	OpEqual        Op = "="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
)

// orderedOps lists operators longest-first so ">=" is matched before the
// bare ">" that is also a prefix of it.
var orderedOps = []Op{OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpEqual}

// Predicate is one "field<op>value" clause from the query string.
type Predicate struct {
	Field string
	Op    Op
	Value string
}

// csvParam is the one reserved parameter name that isn't a document field
// predicate: it switches the response between JSON (default) and CSV.
const csvParam = "csv"

// ParseRawQuery splits a raw (undecoded) query string into predicates plus
// the csv output switch. Each "&"-separated segment is expected to embed
// its own operator, e.g. "date>=2023-05-07T13:00:00" or
// "driver_number=44" — never a bare "field=value" pair parsed by net/url,
// since "=" is itself one of the operators.
func ParseRawQuery(raw string) (predicates []Predicate, csv bool, err error) {
	if raw == "" {
		return nil, false, nil
	}
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		decoded, err := url.QueryUnescape(segment)
		if err != nil {
			return nil, false, fmt.Errorf("query: invalid escape in %q: %w", segment, err)
		}

		field, op, value, ok := splitOnOperator(decoded)
		if !ok {
			return nil, false, fmt.Errorf("query: %q has no recognized operator", decoded)
		}

		if field == csvParam && op == OpEqual {
			csv = value == "true" || value == "1"
			continue
		}

		value = fixTimezonePlus(field, value)

		predicates = append(predicates, Predicate{Field: field, Op: op, Value: value})
	}
	return predicates, csv, nil
}

// splitOnOperator finds the first operator occurring in s, preferring the
// two-character operators over their one-character prefixes.
func splitOnOperator(s string) (field string, op Op, value string, ok bool) {
	bestPos := -1
	var bestOp Op
	for _, candidate := range orderedOps {
		pos := strings.Index(s, string(candidate))
		if pos < 0 {
			continue
		}
		if bestPos == -1 || pos < bestPos || (pos == bestPos && len(candidate) > len(bestOp)) {
			bestPos = pos
			bestOp = candidate
		}
	}
	if bestPos == -1 {
		return "", "", "", false
	}
	return s[:bestPos], bestOp, s[bestPos+len(bestOp):], true
}

// fixTimezonePlus undoes a lossy client encoding: a literal "+" in a
// timezone offset ("2023-05-07T13:00:00+01:00") is valid in a raw query
// string, but url.QueryUnescape also treats "+" as an encoded space, so by
// the time ParseRawQuery sees the decoded value the offset reads
// "...00 01:00". Scoped to date-like fields, where that shape is
// unambiguous, the first space is reinterpreted back into a "+".
func fixTimezonePlus(field, value string) string {
	if !strings.Contains(field, "date") {
		return value
	}
	if idx := strings.Index(value, " "); idx >= 0 {
		return value[:idx] + "+" + value[idx+1:]
	}
	return value
}
