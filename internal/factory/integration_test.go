package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/podtracker/internal/config"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/deck"
	"github.com/mcoot/podtracker/internal/services/game"
	"github.com/mcoot/podtracker/internal/services/pod"
	"github.com/mcoot/podtracker/internal/services/user"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// register creates an account and logs in, returning the caller identity
func (s *IntegrationSuite) register(username string) model.Identity {
	_, err := s.app.UserService.Register(s.ctx, user.RegisterInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	})
	s.Require().NoError(err)

	session, err := s.app.UserService.AuthenticateCredentials(s.ctx, username+"@example.com", "password123")
	s.Require().NoError(err)

	id, err := s.app.Guard.Authenticate(s.ctx, "Bearer "+session.Token)
	s.Require().NoError(err)
	return id
}

// Test: a pod records a game from start to a declared winner
func (s *IntegrationSuite) TestCompleteGameNightFlow() {
	alice := s.register("alice")
	bob := s.register("bob")

	// Step 1: Both players register a deck
	aliceDeck, err := s.app.DeckService.Create(s.ctx, alice, deck.Input{Name: "Elves", Commanders: []string{"Lathril, Blade of the Elves"}})
	s.Require().NoError(err)
	bobDeck, err := s.app.DeckService.Create(s.ctx, bob, deck.Input{Name: "Partners", Commanders: []string{"Tymna the Weaver", "Thrasios, Triton Hero"}})
	s.Require().NoError(err)

	// Step 2: Alice creates the pod with Bob and both decks
	p, err := s.app.PodController.Create(s.ctx, alice, pod.Input{
		Name:      "Friday Night",
		MemberIDs: []model.UserID{bob.UserID},
		DeckIDs:   []model.DeckID{aliceDeck.ID, bobDeck.ID},
	})
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.UserID, bob.UserID}, p.MemberIDs)

	// Step 3: Bob sees the pod and records a game
	pods, err := s.app.PodController.List(s.ctx, bob)
	s.Require().NoError(err)
	s.Len(pods, 1)

	g, err := s.app.GameController.Create(s.ctx, bob, game.Input{PodID: p.ID, PlayerIDs: []model.UserID{alice.UserID, bob.UserID}})
	s.Require().NoError(err)
	s.Equal(model.GameStatusScheduled, g.Status())

	// Step 4: Two hours later Alice wins
	s.app.MockClock.Advance(2 * time.Hour)
	winner := alice.UserID
	g, err = s.app.GameController.Update(s.ctx, bob, g.ID, game.Update{WinnerID: &winner})
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, g.Status())
	s.Equal(s.app.MockClock.Now(), *g.EndTime)

	// Step 5: Deleting the pod takes the game with it
	s.Require().NoError(s.app.PodController.Delete(s.ctx, alice, p.ID))
	_, err = s.app.GameController.Get(s.ctx, alice, g.ID)
	s.ErrorIs(err, model.ErrNotFound)
}

// Test: logging out revokes the token
func (s *IntegrationSuite) TestLogoutRevokesToken() {
	_, err := s.app.UserService.Register(s.ctx, user.RegisterInput{Email: "carol@example.com", Username: "carol", Password: "password123"})
	s.Require().NoError(err)
	session, err := s.app.UserService.AuthenticateCredentials(s.ctx, "carol@example.com", "password123")
	s.Require().NoError(err)

	s.Require().NoError(s.app.UserService.Logout(s.ctx, session.Token))

	_, err = s.app.Guard.Authenticate(s.ctx, "Bearer "+session.Token)
	s.ErrorIs(err, model.ErrUnauthenticated)
}

// Test: tokens stop working once they expire
func (s *IntegrationSuite) TestTokenExpires() {
	alice := s.register("alice")
	session, err := s.app.UserService.AuthenticateCredentials(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.app.MockClock.Advance(25 * time.Hour)

	_, err = s.app.Guard.Authenticate(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrUnauthenticated)
	_, err = s.app.UserService.GetCurrentUser(s.ctx, alice)
	s.NoError(err, "identity resolution is the guard's job, services trust it")
}

// Test: owner-scoped pod names allow the same name for different owners
func (s *IntegrationSuite) TestOwnerScopedPodNames() {
	s.app = NewTestAppWithPodConfig(pod.Config{NameScope: model.PodNameScopeOwner})
	alice := s.register("alice")
	bob := s.register("bob")

	_, err := s.app.PodController.Create(s.ctx, alice, pod.Input{Name: "Commander Night"})
	s.Require().NoError(err)
	_, err = s.app.PodController.Create(s.ctx, bob, pod.Input{Name: "Commander Night"})
	s.NoError(err)
	_, err = s.app.PodController.Create(s.ctx, alice, pod.Input{Name: "commander night"})
	s.ErrorIs(err, model.ErrConflict)
}

func TestNewRejectsUnknownBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "0123456789abcdef"

	cfg.Storage.Type = "mongo"
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "invalid storage type")

	cfg.Storage.Type = config.StorageMemory
	cfg.Revocation.Type = "etcd"
	_, err = New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "invalid revocation type")
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(context.Background(), config.Default(), nil)
	assert.Error(t, err)
}

func TestNewMemoryApp(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "0123456789abcdef"

	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.NoError(t, app.Health(context.Background()))
	router := app.Router()
	assert.NotNil(t, router)
	assert.Equal(t, router, app.Router())
}
