package historical

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

// linePattern splits one archive line into the duration since session
// start and the raw content that follows it.
var linePattern = regexp.MustCompile(`^(\d+):(\d+):(\d+)\.(\d+)(.*)$`)

// parseLine parses one raw archive line, returning the session-relative
// duration and the content with its trailing CR and quoting stripped.
// Returns ok=false for blank or malformed lines, which the archive's
// final entry and the occasional truncated download both produce.
func parseLine(line string) (d time.Duration, content string, ok bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])

	d = time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond

	content = strings.TrimSuffix(m[5], "\r")
	content = strings.Trim(content, `"`)
	return d, content, true
}

// decodeTopic parses and decodes every line of a topic's raw content into
// Messages timestamped relative to t0.
func decodeTopic(topic string, rawLines []string, t0 time.Time) ([]timing.Message, error) {
	var messages []timing.Message
	for _, line := range rawLines {
		if line == "" {
			continue
		}
		sessionTime, raw, ok := parseLine(line)
		if !ok {
			continue
		}

		content, err := timing.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("historical: decode %s: %w", topic, err)
		}

		messages = append(messages, timing.Message{
			Topic:     topic,
			Content:   content,
			Timepoint: t0.Add(sessionTime),
		})
	}
	return messages, nil
}
