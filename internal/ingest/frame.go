package ingest

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/f1telemetry/internal/timing"
)

// ParseFrame parses one raw recorded line into a Message. Each line is a
// JSON array of `[topic, content, timepoint]`, the recording subprocess's
// on-disk encoding of what it received off the wire. content is either
// already a JSON value or, for the high-volume `.z` topics, a string that
// still needs timing.Decode.
func ParseFrame(line string) (timing.Message, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return timing.Message{}, fmt.Errorf("ingest: empty frame line")
	}

	var frame [3]json.RawMessage
	if err := json.Unmarshal([]byte(line), &frame); err != nil {
		return timing.Message{}, fmt.Errorf("ingest: parse frame: %w", err)
	}

	var topic string
	if err := json.Unmarshal(frame[0], &topic); err != nil {
		return timing.Message{}, fmt.Errorf("ingest: parse frame topic: %w", err)
	}

	content, err := decodeFrameContent(frame[1])
	if err != nil {
		return timing.Message{}, fmt.Errorf("ingest: parse frame content: %w", err)
	}

	var timepointStr string
	if err := json.Unmarshal(frame[2], &timepointStr); err != nil {
		return timing.Message{}, fmt.Errorf("ingest: parse frame timepoint: %w", err)
	}
	timepoint, err := timing.ParseTime(timepointStr)
	if err != nil {
		return timing.Message{}, fmt.Errorf("ingest: parse frame timepoint: %w", err)
	}

	return timing.Message{Topic: topic, Content: content, Timepoint: timepoint}, nil
}

func decodeFrameContent(raw json.RawMessage) (any, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return timing.Decode(asString)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
