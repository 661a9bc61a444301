package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/auth"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/storage/revocation"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret-0123456789"

// StartTime is the mock clock's starting point in tests
var StartTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Credentials returns fast credentials (minimum bcrypt cost) with in-memory revocation
func Credentials(t testing.TB, clk clock.Clock) *auth.Credentials {
	t.Helper()
	cfg := auth.DefaultConfig()
	cfg.JWTSecret = TestJWTSecret
	cfg.BcryptCost = bcrypt.MinCost
	creds, err := auth.NewCredentials(cfg, clk, revocation.NewMemory(clk))
	require.NoError(t, err)
	return creds
}

// SeedUser inserts a user directly into the store, bypassing the service layer
func SeedUser(t testing.TB, store storage.Storage, id, username string) model.Identity {
	t.Helper()
	err := store.InsertUser(context.Background(), &model.User{
		ID:           model.UserID(id),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-hash",
		CreatedAt:    StartTime,
		UpdatedAt:    StartTime,
	})
	require.NoError(t, err)
	return model.Identity{UserID: model.UserID(id)}
}
