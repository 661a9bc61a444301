package postgres

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/storage/storagetest"
)

// newTestStorage opens a fresh SQLite database with the schema auto-migrated
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pods.db")
	db, err := gorm.Open(sqlite.Open(path), GormConfig())
	require.NoError(t, err)

	s := NewWithDB(db)
	require.NoError(t, s.AutoMigrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorageContract(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return newTestStorage(t) },
	})
}

func TestDeckJSONColumnsRoundTripEmptyLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertUser(ctx, &model.User{ID: "u1", Email: "a@example.com", Username: "alice", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.InsertDeck(ctx, &model.Deck{ID: "d1", OwnerID: "u1", Name: "Deck", Commanders: []string{"Kenrith"}, CreatedAt: now, UpdatedAt: now}))

	got, err := s.GetDeck(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kenrith"}, got.Commanders)
	assert.Empty(t, got.Links)
	assert.Nil(t, got.Description)
}

func TestPing(t *testing.T) {
	s := newTestStorage(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestMigrateRejectsBadURL(t *testing.T) {
	err := Migrate("not-a-url://")
	assert.Error(t, err)
}
