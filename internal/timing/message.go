package timing

import "time"

// Message is a single decoded frame from the upstream feed: the topic it was
// published under, its decoded content, and the timepoint the feed attached
// to it (not the wall-clock time we received it).
type Message struct {
	Topic     string
	Content   any
	Timepoint time.Time
}

// Record is a fully processed document, addressed by a content-derived Key
// and tagged with the monotonic ID that breaks ties between two records that
// resolve to the same Key. Collection is the target collection name (e.g.
// "laps", "car_data") used to route the record to its store table.
type Record struct {
	Collection string
	Key        string
	ID         int64
	Body       any
}
