package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/podtracker/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	mu sync.Mutex

	// Queued is a queue of ids to hand out before falling back to a counter
	Queued []string
	next   int
	count  int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewID returns the next queued id, or a sequential "id-N" once the queue is empty
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next < len(m.Queued) {
		id := m.Queued[m.next]
		m.next++
		return id
	}
	m.count++
	return fmt.Sprintf("id-%d", m.count)
}

// Queue adds ids to the queue
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queued = append(m.Queued, values...)
}
