package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Compiled is a ready-to-execute WHERE fragment, positional in the same
// style as database.buildFilterWhereClause: "1=1" as a safe base so the
// fragment can always be appended to a query with "AND".
type Compiled struct {
	Where string
	Args  []any
}

// Compile turns a flat list of predicates into a single WHERE fragment.
//
// Predicates are first grouped by field. Within a field:
//   - repeated "=" predicates OR together (field=44&field=1 means 44 OR 1,
//     not an impossible AND);
//   - inequality predicates are greedily paired, a lower bound with an
//     upper bound, into bounded range conditions ("date>=X" + "date<Y"
//     becomes one "X <= date < Y" condition); any inequality left without
//     a partner of the opposite direction stands alone as an unbounded
//     condition.
//
// Each field's groups OR together, and every field's condition then ANDs
// against every other field's — the same two-level shape
// buildFilterConditions uses for its fixed set of dimensions, generalized
// here to work over whatever field name the caller asks for.
func Compile(predicates []Predicate) Compiled {
	if len(predicates) == 0 {
		return Compiled{Where: "1=1"}
	}

	order, byField := groupByField(predicates)

	var fieldClauses []string
	var args []any
	for _, field := range order {
		clause, fieldArgs := compileField(field, byField[field])
		if clause == "" {
			continue
		}
		fieldClauses = append(fieldClauses, clause)
		args = append(args, fieldArgs...)
	}

	if len(fieldClauses) == 0 {
		return Compiled{Where: "1=1", Args: args}
	}
	return Compiled{Where: "1=1 AND " + strings.Join(fieldClauses, " AND "), Args: args}
}

func groupByField(predicates []Predicate) (order []string, byField map[string][]Predicate) {
	byField = make(map[string][]Predicate)
	for _, p := range predicates {
		if _, seen := byField[p.Field]; !seen {
			order = append(order, p.Field)
		}
		byField[p.Field] = append(byField[p.Field], p)
	}
	return order, byField
}

func compileField(field string, preds []Predicate) (string, []any) {
	var equals []Predicate
	var lowerBounds []Predicate // > or >=
	var upperBounds []Predicate // < or <=

	for _, p := range preds {
		switch p.Op {
		case OpEqual:
			equals = append(equals, p)
		case OpGreater, OpGreaterEqual:
			lowerBounds = append(lowerBounds, p)
		case OpLess, OpLessEqual:
			upperBounds = append(upperBounds, p)
		}
	}

	var groups []string
	var args []any

	if len(equals) > 0 {
		placeholders := make([]string, len(equals))
		for i, p := range equals {
			val := castArg(p.Value)
			placeholders[i] = comparisonExpr(field, "=", val)
			args = append(args, val)
		}
		groups = append(groups, "("+strings.Join(placeholders, " OR ")+")")
	}

	for len(lowerBounds) > 0 && len(upperBounds) > 0 {
		lo := lowerBounds[0]
		hi := upperBounds[0]
		lowerBounds = lowerBounds[1:]
		upperBounds = upperBounds[1:]
		loVal, hiVal := castArg(lo.Value), castArg(hi.Value)
		groups = append(groups, fmt.Sprintf("(%s AND %s)", comparisonExpr(field, string(lo.Op), loVal), comparisonExpr(field, string(hi.Op), hiVal)))
		args = append(args, loVal, hiVal)
	}
	for _, p := range lowerBounds {
		val := castArg(p.Value)
		groups = append(groups, comparisonExpr(field, string(p.Op), val))
		args = append(args, val)
	}
	for _, p := range upperBounds {
		val := castArg(p.Value)
		groups = append(groups, comparisonExpr(field, string(p.Op), val))
		args = append(args, val)
	}

	if len(groups) == 0 {
		return "", nil
	}
	if len(groups) == 1 {
		return groups[0], args
	}
	return "(" + strings.Join(groups, " OR ") + ")", args
}

// comparisonExpr builds one side of a comparison against a document field,
// extracted from the JSON body column and cast to the SQL type val's Go
// type implies. DuckDB's "->>" operator extracts a JSON value as text;
// TRY_CAST gives numeric and timestamp comparisons their natural ordering
// instead of comparing as strings, the same job try_cast did in the
// original query layer. Comparing as text (the bool and string cases) is
// exact for "="; an ordering predicate on such a value compares the
// extracted text lexicographically.
func comparisonExpr(field, sqlOp string, val any) string {
	column := fmt.Sprintf("body ->> '%s'", strings.ReplaceAll(field, "'", "''"))
	switch val.(type) {
	case float64:
		column = fmt.Sprintf("TRY_CAST(%s AS DOUBLE)", column)
	case time.Time:
		column = fmt.Sprintf("TRY_CAST(%s AS TIMESTAMP)", column)
	}
	return fmt.Sprintf("%s %s ?", column, sqlOp)
}

// castArg infers the literal's type from its text. Booleans are left as
// plain strings: the JSON body column is extracted as text, so "true"/
// "false" compare correctly against it without a cast either way.
func castArg(raw string) any {
	switch strings.ToLower(raw) {
	case "true", "false":
		return raw
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return raw
}
