package factory

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/podtracker/internal/dependencies/mocks"
	"github.com/mcoot/podtracker/internal/services/auth"
	"github.com/mcoot/podtracker/internal/services/pod"
	"github.com/mcoot/podtracker/internal/storage/memory"
	"github.com/mcoot/podtracker/internal/storage/revocation"
	"github.com/mcoot/podtracker/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App backed by memory stores with a mock clock and id
// generator. Passwords are hashed at minimum cost.
func NewTestApp() *TestApp {
	return NewTestAppWithPodConfig(pod.DefaultConfig())
}

// NewTestAppWithPodConfig is NewTestApp with a custom pod policy
func NewTestAppWithPodConfig(podCfg pod.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testutil.StartTime)
	mockIDs := mocks.NewMockIDs()

	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = testutil.TestJWTSecret
	authCfg.BcryptCost = bcrypt.MinCost

	app, err := newWithDependencies(store, revocation.NewMemory(mockClock), mockClock, mockIDs, authCfg, podCfg, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
