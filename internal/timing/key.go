package timing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatKey builds the content-addressed "_key" string for a document from
// its identity field values, in the same shape the upstream reference
// ingestor uses: datetime components are reduced to an epoch-millisecond
// integer (so two records for the same instant always collide on the same
// key regardless of formatting), everything else is stringified as-is, and
// the parts are joined with underscores.
func FormatKey(parts ...any) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = keyPart(p)
	}
	return strings.Join(out, "_")
}

func keyPart(p any) string {
	switch v := p.(type) {
	case time.Time:
		return strconv.FormatInt(v.UnixMilli(), 10)
	case *time.Time:
		if v == nil {
			return ""
		}
		return strconv.FormatInt(v.UnixMilli(), 10)
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
