package mocks

import (
	"fmt"

	"github.com/dmota/tagbank/internal/dependencies/ident"
)

// MockGenerator is a mock implementation of ident.Generator for testing
type MockGenerator struct {
	// IDs is a queue of results to return from NewID
	IDs   []string
	index int

	// fallback counter for when the queue runs dry
	counter int
}

// Ensure MockGenerator implements Generator
var _ ident.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a new MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// NewID returns the next queued id, or a deterministic fallback
func (g *MockGenerator) NewID() string {
	if g.index < len(g.IDs) {
		id := g.IDs[g.index]
		g.index++
		return id
	}
	g.counter++
	return fmt.Sprintf("id-%04d", g.counter)
}

// Queue adds ids to the result queue
func (g *MockGenerator) Queue(ids ...string) {
	g.IDs = append(g.IDs, ids...)
}

// Reset clears all queued ids
func (g *MockGenerator) Reset() {
	g.IDs = nil
	g.index = 0
	g.counter = 0
}
