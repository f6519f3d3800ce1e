// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package apperr

import (
	"errors"
	"testing"
)

func TestKindOf_ClassifiedError(t *testing.T) {
	err := New(KindBadQuery, "query.Parse", errors.New("unknown operator"))
	if got := KindOf(err); got != KindBadQuery {
		t.Errorf("KindOf() = %v, want %v", got, KindBadQuery)
	}
}

func TestKindOf_UnclassifiedErrorDefaultsInternal(t *testing.T) {
	if got := KindOf(errors.New("plain error")); got != KindInternal {
		t.Errorf("KindOf() = %v, want %v", got, KindInternal)
	}
}

func TestNew_NilErrPassesThrough(t *testing.T) {
	if err := New(KindTimeout, "store.Query", nil); err != nil {
		t.Errorf("New() with nil err = %v, want nil", err)
	}
}

func TestError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := New(KindTransient, "store.Write", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
