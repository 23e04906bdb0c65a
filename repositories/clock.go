package repositories

import (
	"sync"
	"time"
)

// MonotonicClock hands out server timestamps that strictly increase per collection,
// even when the wall clock stalls or steps backwards.
type MonotonicClock struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
	step time.Duration
}

func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	return NewMonotonicClockWithResolution(now, time.Microsecond)
}

// NewMonotonicClockWithResolution returns a clock whose values are multiples of
// resolution, so they stay distinct in stores that keep no finer precision.
func NewMonotonicClockWithResolution(now func() time.Time, resolution time.Duration) *MonotonicClock {
	if now == nil {
		now = time.Now
	}
	if resolution <= 0 {
		resolution = time.Nanosecond
	}
	return &MonotonicClock{last: make(map[string]time.Time), now: now, step: resolution}
}

// Next returns the next timestamp for collection, in UTC.
func (c *MonotonicClock) Next(collection string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(c.step)
	if last, ok := c.last[collection]; ok && !t.After(last) {
		t = last.Add(c.step)
	}
	c.last[collection] = t
	return t
}

// ResolveTimestamps returns a copy of data with every top-level ServerTimestamp
// placeholder replaced by the clock's next value for collection.
func (c *MonotonicClock) ResolveTimestamps(collection string, data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	var ts time.Time
	for k, v := range data {
		if IsServerTimestamp(v) {
			if ts.IsZero() {
				ts = c.Next(collection)
			}
			out[k] = ts
			continue
		}
		out[k] = v
	}
	return out
}
