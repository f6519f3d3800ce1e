// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package timing

import (
	"sync"
	"testing"
)

func TestClock_StrictlyIncreasing(t *testing.T) {
	c := NewClock()
	prev := c.Next()
	for i := 0; i < 10_000; i++ {
		next := c.Next()
		if next <= prev {
			t.Fatalf("Next() returned %d after %d, want strictly greater", next, prev)
		}
		prev = next
	}
}

func TestClock_ConcurrentCallsStayUnique(t *testing.T) {
	c := NewClock()
	const n = 500
	ids := make([]int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = c.Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d returned under concurrent access", id)
		}
		seen[id] = true
	}
}
