// Package revocation tracks bearer tokens that were invalidated before they expired.
package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
)

// Store remembers revoked token ids until the token would have expired anyway
type Store interface {
	// Revoke marks tokenID as revoked until the given time. Revoking an
	// already-expired token is a no-op.
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Memory is an in-process revocation store
type Memory struct {
	mu      sync.Mutex
	clock   clock.Clock
	revoked map[string]time.Time
}

// NewMemory creates an empty in-process revocation store
func NewMemory(clk clock.Clock) *Memory {
	return &Memory{
		clock:   clk,
		revoked: make(map[string]time.Time),
	}
}

// Ensure Memory implements the interface
var _ Store = (*Memory)(nil)

func (m *Memory) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.pruneLocked(now)
	if !until.After(now) {
		return nil
	}
	m.revoked[tokenID] = until
	return nil
}

func (m *Memory) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(m.clock.Now()) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// pruneLocked drops entries whose tokens have expired. Caller holds mu.
func (m *Memory) pruneLocked(now time.Time) {
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
		}
	}
}
