// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package apperr is the typed error taxonomy every layer above the feed
// decoder reports through, so the API layer can map a failure to the right
// HTTP status without string-matching error messages.
package apperr

import "errors"

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	// KindInternal is an unexpected failure with no clearer category —
	// the default for anything not explicitly classified below.
	KindInternal Kind = iota
	// KindTransient means the operation may succeed if retried (a dropped
	// connection, a timed-out upstream call).
	KindTransient
	// KindMalformed means the input itself can never succeed — a frame
	// that doesn't decode as JSON or base64-deflate, a document that
	// doesn't match its collection's expected shape.
	KindMalformed
	// KindBadQuery means a caller-supplied query was rejected — an
	// unrecognized operator, an unknown collection name.
	KindBadQuery
	// KindTimeout means an operation did not complete within its
	// deadline.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindMalformed:
		return "malformed"
	case KindBadQuery:
		return "bad_query"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error wraps an underlying cause with a Kind and the operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err as an *Error of the given kind, tagged with op (typically
// "package.Func"). Returns nil if err is nil, so it's safe to wrap a
// result unconditionally: `return apperr.New(apperr.KindBadQuery, "query.Parse", err)`.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err, or KindInternal if err was never
// classified by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
