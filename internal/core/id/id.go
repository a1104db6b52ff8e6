// Package id provides numeric identifiers for all stored entities.
// IDs are millisecond timestamps bumped to stay strictly increasing, so
// they sort by creation time and stay compatible with previously stored data.
package id

import (
	"strconv"
	"sync"
	"time"
)

// ID is the identifier type shared by every collection.
type ID = int64

// Generator hands out strictly increasing IDs.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewGenerator creates a generator backed by the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator with an injected clock (tests).
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a new ID that is greater than every ID returned before
// and greater than floor (the largest ID already present in a collection).
func (g *Generator) Next(floor ID) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := g.now().UnixMilli()
	if candidate <= g.last {
		candidate = g.last + 1
	}
	if candidate <= floor {
		candidate = floor + 1
	}
	g.last = candidate
	return candidate
}

var defaultGenerator = NewGenerator()

// New returns the next ID from the process-wide generator.
func New(floor ID) ID {
	return defaultGenerator.Next(floor)
}

// Parse converts a path/query string to ID.
func Parse(s string) (ID, error) {
	return strconv.ParseInt(s, 10, 64)
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == 0
}
