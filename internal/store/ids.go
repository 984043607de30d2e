package store

import "time"

// IDGenerator hands out task ids derived from the creation time in
// milliseconds. Ids are strictly increasing: two tasks created in the same
// millisecond (or under a clock that steps backwards) get last+1.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

// NewIDGenerator creates a generator reading the given clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id greater than every id seen so far.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe records an existing id so later ids sort after it.
func (g *IDGenerator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
