package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/podtracker/internal/dependencies/mocks"
)

type MemorySuite struct {
	suite.Suite
	clock *mocks.MockClock
	store *Memory
	ctx   context.Context
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = NewMemory(s.clock)
	s.ctx = context.Background()
}

func (s *MemorySuite) TestUnknownTokenIsNotRevoked() {
	revoked, err := s.store.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *MemorySuite) TestRevokedUntilExpiry() {
	s.Require().NoError(s.store.Revoke(s.ctx, "jti-1", s.clock.Now().Add(time.Hour)))

	revoked, err := s.store.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	s.clock.Advance(time.Hour)

	revoked, err = s.store.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *MemorySuite) TestRevokeExpiredTokenIsNoop() {
	s.Require().NoError(s.store.Revoke(s.ctx, "jti-1", s.clock.Now().Add(-time.Minute)))

	revoked, err := s.store.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
	s.Empty(s.store.revoked)
}

func (s *MemorySuite) TestRevokePrunesExpiredEntries() {
	s.Require().NoError(s.store.Revoke(s.ctx, "old", s.clock.Now().Add(time.Minute)))
	s.clock.Advance(2 * time.Minute)
	s.Require().NoError(s.store.Revoke(s.ctx, "new", s.clock.Now().Add(time.Minute)))

	s.Len(s.store.revoked, 1)
	s.Contains(s.store.revoked, "new")
}
