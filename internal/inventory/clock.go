package inventory

import "time"

// Clock abstracts time retrieval so id assignment is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NextID derives a new id from the clock in Unix milliseconds.
// If that id is already taken it is incremented until exists reports false,
// so two creations within the same millisecond still get distinct ids.
func NextID(c Clock, exists func(int64) bool) int64 {
	id := c.Now().UnixMilli()
	for exists(id) {
		id++
	}
	return id
}
