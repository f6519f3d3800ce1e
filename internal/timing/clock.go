package timing

import (
	"sync"
	"time"
)

// Clock allocates the monotonically increasing "_id" stamped on every
// record. IDs are wall-clock milliseconds, but never allowed to go
// backwards or repeat: a burst of calls within the same millisecond still
// gets strictly increasing values. Ties on a record's Key are broken by
// keeping whichever copy has the larger ID, so the allocator only needs to
// guarantee a total order, not any particular granularity.
type Clock struct {
	mu   sync.Mutex
	last int64
}

// NewClock returns a ready-to-use Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next ID, guaranteed strictly greater than every ID this
// Clock has returned before.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}
