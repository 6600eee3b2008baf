// Package idgen issues strictly increasing record identifiers derived from
// the wall clock.
package idgen

import (
	"sync"
	"time"
)

// Monotonic hands out millisecond timestamps, bumping past the previous
// value whenever the clock has not advanced or has gone backwards.
type Monotonic struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{now: time.Now}
}

// NewMonotonicWithClock is used by tests to drive the generator from a fake clock.
func NewMonotonicWithClock(now func() time.Time) *Monotonic {
	return &Monotonic{now: now}
}

// Next returns the next identifier together with the wall-clock time it was
// taken at.
func (g *Monotonic) Next() (int64, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now()
	id := t.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id, t
}
