package testutil

import (
	"fmt"
	"sync"
)

// CountingIDGenerator returns build IDs "<prefix>-0001", "<prefix>-0002", ...
//
// It gives golden snapshots and store tests stable IDs without a list of
// tokens to exhaust. Safe for concurrent use.
type CountingIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingIDGenerator creates a generator. An empty prefix means "build".
func NewCountingIDGenerator(prefix string) *CountingIDGenerator {
	if prefix == "" {
		prefix = "build"
	}
	return &CountingIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *CountingIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
