package testfixtures

import (
	"fmt"
	"sync"
)

// CodeSequence produces deterministic registration codes for tests. Codes are
// six lowercase hex characters, matching the production shape.
type CodeSequence struct {
	mu      sync.Mutex
	queued  []string
	counter uint64
}

// NewCodeSequence constructs a sequence that yields the queued codes first and
// then falls back to a numbered series.
func NewCodeSequence(queued ...string) *CodeSequence {
	return &CodeSequence{queued: queued}
}

// Next returns the next code in the sequence.
func (g *CodeSequence) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queued) > 0 {
		code := g.queued[0]
		g.queued = g.queued[1:]
		return code, nil
	}
	g.counter++
	return fmt.Sprintf("%06x", g.counter), nil
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *CodeSequence) NextFunc() func() (string, error) {
	if g == nil {
		return func() (string, error) { return "", nil }
	}
	return g.Next
}
