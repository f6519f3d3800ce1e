package query

// SubstituteLatest replaces any predicate whose value is exactly "latest"
// with the corresponding value from replacements, keyed by field name.
// Fields with no entry in replacements are left untouched, so "latest" is
// only ever special-cased for the fields the caller resolved — in
// practice meeting_key and session_key, resolved from internal/schedule's
// LatestCache against the current live session.
func SubstituteLatest(predicates []Predicate, replacements map[string]string) []Predicate {
	if len(replacements) == 0 {
		return predicates
	}
	out := make([]Predicate, len(predicates))
	for i, p := range predicates {
		if p.Value == "latest" {
			if v, ok := replacements[p.Field]; ok {
				p.Value = v
			}
		}
		out[i] = p
	}
	return out
}
