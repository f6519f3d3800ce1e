// Package timing implements the message and document model shared by every
// collection processor: decoding raw feed frames, assigning content-addressed
// document identity, and allocating the monotonic ids used to break ties.
package timing

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// utf8BOM is the byte sequence some inflated payloads are prefixed with;
// Python's "utf-8-sig" codec strips it silently, so we do the same.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses a raw frame payload into a generic value.
//
// The upstream feed sends most topics as plain JSON, quoted once extra by
// the transport. A handful of high-volume topics (CarData.z, Position.z)
// are instead base64-encoded raw-deflate (no zlib header) compressed JSON.
// We try the cheap path first and only fall back to inflate on failure,
// mirroring the feed's own framing.
func Decode(raw string) (any, error) {
	if v, err := decodeJSON(raw); err == nil {
		return v, nil
	}

	inflated, err := inflateBase64(raw)
	if err != nil {
		return nil, fmt.Errorf("timing: decode: %w", err)
	}

	var v any
	if err := json.Unmarshal(bytes.TrimPrefix(inflated, utf8BOM), &v); err != nil {
		return nil, fmt.Errorf("timing: decode inflated payload: %w", err)
	}
	return v, nil
}

func decodeJSON(raw string) (any, error) {
	trimmed := strings.Trim(raw, `"`)
	// A payload quoted once extra is a JSON string literal whose inner
	// quotes are escaped; unescape it instead of only trimming the quotes.
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		trimmed = inner
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func inflateBase64(raw string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}
