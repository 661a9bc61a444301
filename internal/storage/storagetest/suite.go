// Package storagetest holds the behaviour every storage.Storage implementation must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
)

// Suite runs the storage contract against the store returned by NewStorage.
// Each test gets a fresh, empty store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	base  time.Time
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.base = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
}

// Fixtures

func (s *Suite) user(id, username string) *model.User {
	u := &model.User{
		ID:           model.UserID(id),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash-" + username,
		CreatedAt:    s.base,
		UpdatedAt:    s.base,
	}
	s.Require().NoError(s.store.InsertUser(s.ctx, u))
	return u
}

func (s *Suite) deck(id string, owner model.UserID, offset time.Duration) *model.Deck {
	d := &model.Deck{
		ID:         model.DeckID(id),
		OwnerID:    owner,
		Name:       "Deck " + id,
		Commanders: []string{"Atraxa, Praetors' Voice"},
		Links:      []string{},
		CreatedAt:  s.base.Add(offset),
		UpdatedAt:  s.base.Add(offset),
	}
	s.Require().NoError(s.store.InsertDeck(s.ctx, d))
	return d
}

func (s *Suite) pod(id string, owner model.UserID, members []model.UserID, decks []model.DeckID) *model.Pod {
	p := &model.Pod{
		ID:        model.PodID(id),
		OwnerID:   owner,
		Name:      "Pod " + id,
		NameKey:   model.PodNameKey(model.PodNameScopeGlobal, owner, "Pod "+id),
		CreatedAt: s.base,
		UpdatedAt: s.base,
	}
	p.SetMembers(members)
	p.SetDecks(decks)
	s.Require().NoError(s.store.InsertPod(s.ctx, p))
	return p
}

func (s *Suite) game(id string, pod model.PodID, players []model.UserID, start time.Time) *model.Game {
	g := &model.Game{
		ID:        model.GameID(id),
		PodID:     pod,
		PlayerIDs: players,
		StartTime: start,
		CreatedAt: s.base,
		UpdatedAt: s.base,
	}
	s.Require().NoError(s.store.InsertGame(s.ctx, g))
	return g
}

// User tests

func (s *Suite) TestInsertAndGetUser() {
	bio := "plays blue"
	u := &model.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		Bio:          &bio,
		CreatedAt:    s.base,
		UpdatedAt:    s.base,
	}
	s.Require().NoError(s.store.InsertUser(s.ctx, u))

	got, err := s.store.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", got.Email)
	s.Equal("alice", got.Username)
	s.Equal("hash", got.PasswordHash)
	s.Require().NotNil(got.Bio)
	s.Equal("plays blue", *got.Bio)
	s.Nil(got.DisplayName)
	s.True(s.base.Equal(got.CreatedAt))

	byEmail, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	byName, err := s.store.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.store.GetUser(s.ctx, "missing")
	s.ErrorIs(err, model.ErrNotFound)

	_, err = s.store.GetUserByEmail(s.ctx, "missing@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.store.GetUserByUsername(s.ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestInsertUserDuplicateEmail() {
	s.user("user-1", "alice")

	dup := &model.User{ID: "user-2", Email: "alice@example.com", Username: "other", PasswordHash: "x", CreatedAt: s.base, UpdatedAt: s.base}
	err := s.store.InsertUser(s.ctx, dup)
	s.ErrorIs(err, model.ErrEmailTaken)
	s.ErrorIs(err, model.ErrConflict)

	got, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), got.ID)
}

func (s *Suite) TestInsertUserDuplicateUsername() {
	s.user("user-1", "alice")

	dup := &model.User{ID: "user-2", Email: "new@example.com", Username: "alice", PasswordHash: "x", CreatedAt: s.base, UpdatedAt: s.base}
	err := s.store.InsertUser(s.ctx, dup)
	s.ErrorIs(err, model.ErrUsernameTaken)

	_, err = s.store.GetUser(s.ctx, "user-2")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestUpdateUser() {
	s.user("user-1", "alice")
	name := "Alice"

	updated, err := s.store.UpdateUser(s.ctx, "user-1", func(u *model.User) error {
		u.DisplayName = &name
		u.UpdatedAt = s.base.Add(time.Hour)
		return nil
	})
	s.Require().NoError(err)
	s.Require().NotNil(updated.DisplayName)
	s.Equal("Alice", *updated.DisplayName)

	got, err := s.store.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.DisplayName)
	s.Equal("Alice", *got.DisplayName)
	s.True(s.base.Add(time.Hour).Equal(got.UpdatedAt))
}

func (s *Suite) TestUpdateUserCallbackErrorWritesNothing() {
	s.user("user-1", "alice")
	boom := errors.New("boom")

	_, err := s.store.UpdateUser(s.ctx, "user-1", func(u *model.User) error {
		bio := "changed"
		u.Bio = &bio
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Nil(got.Bio)
}

func (s *Suite) TestUpdateUserNotFound() {
	_, err := s.store.UpdateUser(s.ctx, "missing", func(u *model.User) error { return nil })
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestDeleteUserCascades() {
	owner := s.user("user-1", "alice")
	other := s.user("user-2", "bob")
	d := s.deck("deck-1", other.ID, 0)
	keep := s.deck("deck-2", owner.ID, 0)
	p := s.pod("pod-1", owner.ID, []model.UserID{other.ID}, []model.DeckID{d.ID, keep.ID})

	s.Require().NoError(s.store.DeleteUser(s.ctx, other.ID))

	_, err := s.store.GetUser(s.ctx, other.ID)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.store.GetDeck(s.ctx, d.ID)
	s.ErrorIs(err, model.ErrDeckNotFound)

	gotPod, err := s.store.GetPod(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]model.UserID{owner.ID}, gotPod.MemberIDs)
	s.Equal([]model.DeckID{keep.ID}, gotPod.DeckIDs)

	// Email is free again
	s.user("user-3", "bob")

	s.ErrorIs(s.store.DeleteUser(s.ctx, other.ID), model.ErrUserNotFound)
}

func (s *Suite) TestMissingUsers() {
	s.user("user-1", "alice")
	s.user("user-2", "bob")

	missing, err := s.store.MissingUsers(s.ctx, []model.UserID{"user-1", "ghost", "user-2", "ghost"})
	s.Require().NoError(err)
	s.Equal([]model.UserID{"ghost"}, missing)

	missing, err = s.store.MissingUsers(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(missing)
}

// Deck tests

func (s *Suite) TestInsertAndGetDeck() {
	owner := s.user("user-1", "alice")
	desc := "stax"
	d := &model.Deck{
		ID:          "deck-1",
		OwnerID:     owner.ID,
		Name:        "Partners",
		Commanders:  []string{"Thrasios, Triton Hero", "Tymna the Weaver"},
		Description: &desc,
		Links:       []string{"https://moxfield.com/decks/abc"},
		CreatedAt:   s.base,
		UpdatedAt:   s.base,
	}
	s.Require().NoError(s.store.InsertDeck(s.ctx, d))

	got, err := s.store.GetDeck(s.ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal(owner.ID, got.OwnerID)
	s.Equal("Partners", got.Name)
	s.Equal([]string{"Thrasios, Triton Hero", "Tymna the Weaver"}, got.Commanders)
	s.Require().NotNil(got.Description)
	s.Equal("stax", *got.Description)
	s.Equal([]string{"https://moxfield.com/decks/abc"}, got.Links)
}

func (s *Suite) TestGetDeckNotFound() {
	_, err := s.store.GetDeck(s.ctx, "missing")
	s.ErrorIs(err, model.ErrDeckNotFound)
}

func (s *Suite) TestFindDecksByOwnerOldestFirst() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.deck("deck-b", alice.ID, time.Minute)
	s.deck("deck-a", alice.ID, 2*time.Minute)
	s.deck("deck-c", alice.ID, 0)
	s.deck("deck-x", bob.ID, 0)

	decks, err := s.store.FindDecks(s.ctx, storage.DeckFilter{OwnerID: alice.ID})
	s.Require().NoError(err)
	s.Require().Len(decks, 3)
	s.Equal(model.DeckID("deck-c"), decks[0].ID)
	s.Equal(model.DeckID("deck-b"), decks[1].ID)
	s.Equal(model.DeckID("deck-a"), decks[2].ID)

	none, err := s.store.FindDecks(s.ctx, storage.DeckFilter{OwnerID: "nobody"})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *Suite) TestUpdateDeckKeepsOwner() {
	alice := s.user("user-1", "alice")
	s.deck("deck-1", alice.ID, 0)

	updated, err := s.store.UpdateDeck(s.ctx, "deck-1", func(d *model.Deck) error {
		d.Name = "Renamed"
		d.Commanders = []string{"Kinnan, Bonder Prodigy"}
		d.OwnerID = "someone-else"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(alice.ID, updated.OwnerID)

	got, err := s.store.GetDeck(s.ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal([]string{"Kinnan, Bonder Prodigy"}, got.Commanders)
	s.Equal(alice.ID, got.OwnerID)
}

func (s *Suite) TestDeleteDeckRemovesPodAssociation() {
	alice := s.user("user-1", "alice")
	d1 := s.deck("deck-1", alice.ID, 0)
	d2 := s.deck("deck-2", alice.ID, 0)
	p := s.pod("pod-1", alice.ID, nil, []model.DeckID{d1.ID, d2.ID})

	s.Require().NoError(s.store.DeleteDeck(s.ctx, d1.ID))
	s.ErrorIs(s.store.DeleteDeck(s.ctx, d1.ID), model.ErrDeckNotFound)

	got, err := s.store.GetPod(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]model.DeckID{d2.ID}, got.DeckIDs)
}

func (s *Suite) TestFindDecksByIDs() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.deck("deck-1", alice.ID, 0)
	s.deck("deck-2", bob.ID, time.Minute)
	s.deck("deck-3", bob.ID, 2*time.Minute)

	decks, err := s.store.FindDecks(s.ctx, storage.DeckFilter{IDs: []model.DeckID{"deck-2", "nope", "deck-1"}})
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Equal(model.DeckID("deck-1"), decks[0].ID)
	s.Equal(model.DeckID("deck-2"), decks[1].ID)
	s.Equal(bob.ID, decks[1].OwnerID)

	owned, err := s.store.FindDecks(s.ctx, storage.DeckFilter{OwnerID: bob.ID, IDs: []model.DeckID{"deck-1", "deck-3"}})
	s.Require().NoError(err)
	s.Require().Len(owned, 1)
	s.Equal(model.DeckID("deck-3"), owned[0].ID)
}

// Pod tests

func (s *Suite) TestInsertAndGetPodPreservesOrder() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	carol := s.user("user-3", "carol")
	d1 := s.deck("deck-1", bob.ID, 0)
	d2 := s.deck("deck-2", alice.ID, 0)

	s.pod("pod-1", alice.ID, []model.UserID{carol.ID, bob.ID}, []model.DeckID{d1.ID, d2.ID})

	got, err := s.store.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	s.Equal(alice.ID, got.OwnerID)
	s.Equal([]model.UserID{alice.ID, carol.ID, bob.ID}, got.MemberIDs)
	s.Equal([]model.DeckID{d1.ID, d2.ID}, got.DeckIDs)
}

func (s *Suite) TestInsertPodNameTaken() {
	alice := s.user("user-1", "alice")
	s.pod("pod-1", alice.ID, nil, nil)

	dup := &model.Pod{
		ID:        "pod-2",
		OwnerID:   alice.ID,
		Name:      "POD POD-1",
		NameKey:   model.PodNameKey(model.PodNameScopeGlobal, alice.ID, "POD POD-1"),
		MemberIDs: []model.UserID{alice.ID},
		CreatedAt: s.base,
		UpdatedAt: s.base,
	}
	s.ErrorIs(s.store.InsertPod(s.ctx, dup), model.ErrPodNameTaken)

	_, err := s.store.GetPod(s.ctx, "pod-2")
	s.ErrorIs(err, model.ErrPodNotFound)
}

func (s *Suite) TestFindPodsByMember() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	carol := s.user("user-3", "carol")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, nil)
	s.pod("pod-2", carol.ID, nil, nil)
	s.pod("pod-3", bob.ID, nil, nil)

	pods, err := s.store.FindPods(s.ctx, storage.PodFilter{MemberID: bob.ID})
	s.Require().NoError(err)
	ids := make([]model.PodID, len(pods))
	for i, p := range pods {
		ids[i] = p.ID
	}
	s.ElementsMatch([]model.PodID{"pod-1", "pod-3"}, ids)

	owned, err := s.store.FindPods(s.ctx, storage.PodFilter{OwnerID: carol.ID})
	s.Require().NoError(err)
	s.Require().Len(owned, 1)
	s.Equal(model.PodID("pod-2"), owned[0].ID)
}

func (s *Suite) TestUpdatePodReplacesRelations() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	carol := s.user("user-3", "carol")
	d1 := s.deck("deck-1", alice.ID, 0)
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, []model.DeckID{d1.ID})

	_, err := s.store.UpdatePod(s.ctx, "pod-1", func(p *model.Pod) error {
		p.SetMembers([]model.UserID{carol.ID})
		p.SetDecks(nil)
		p.Name = "Thursday"
		p.NameKey = model.PodNameKey(model.PodNameScopeGlobal, p.OwnerID, p.Name)
		return nil
	})
	s.Require().NoError(err)

	got, err := s.store.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	s.Equal("Thursday", got.Name)
	s.Equal([]model.UserID{alice.ID, carol.ID}, got.MemberIDs)
	s.Empty(got.DeckIDs)
}

func (s *Suite) TestUpdatePodNameTaken() {
	alice := s.user("user-1", "alice")
	s.pod("pod-1", alice.ID, nil, nil)
	s.pod("pod-2", alice.ID, nil, nil)

	_, err := s.store.UpdatePod(s.ctx, "pod-2", func(p *model.Pod) error {
		p.Name = "Pod pod-1"
		p.NameKey = model.PodNameKey(model.PodNameScopeGlobal, p.OwnerID, p.Name)
		return nil
	})
	s.ErrorIs(err, model.ErrPodNameTaken)

	got, err := s.store.GetPod(s.ctx, "pod-2")
	s.Require().NoError(err)
	s.Equal("Pod pod-2", got.Name)
}

func (s *Suite) TestDeletePodCascadesGames() {
	alice := s.user("user-1", "alice")
	s.pod("pod-1", alice.ID, nil, nil)
	s.pod("pod-2", alice.ID, nil, nil)
	s.game("game-1", "pod-1", []model.UserID{alice.ID}, s.base)
	s.game("game-2", "pod-2", []model.UserID{alice.ID}, s.base)

	s.Require().NoError(s.store.DeletePod(s.ctx, "pod-1"))

	_, err := s.store.GetPod(s.ctx, "pod-1")
	s.ErrorIs(err, model.ErrPodNotFound)
	_, err = s.store.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.store.GetGame(s.ctx, "game-2")
	s.NoError(err)

	s.ErrorIs(s.store.DeletePod(s.ctx, "pod-1"), model.ErrPodNotFound)
}

// Game tests

func (s *Suite) TestInsertAndGetGame() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, nil)
	s.game("game-1", "pod-1", []model.UserID{bob.ID, alice.ID}, s.base)

	got, err := s.store.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PodID("pod-1"), got.PodID)
	s.Equal([]model.UserID{bob.ID, alice.ID}, got.PlayerIDs)
	s.True(s.base.Equal(got.StartTime))
	s.Nil(got.EndTime)
	s.Nil(got.WinnerID)
	s.Equal(model.GameStatusScheduled, got.Status())
}

func (s *Suite) TestInsertGameUnknownPod() {
	alice := s.user("user-1", "alice")
	g := &model.Game{ID: "game-1", PodID: "nope", PlayerIDs: []model.UserID{alice.ID}, StartTime: s.base}
	s.ErrorIs(s.store.InsertGame(s.ctx, g), model.ErrPodNotFound)
}

func (s *Suite) TestFindGamesNewestFirst() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, nil)
	s.game("game-old", "pod-1", []model.UserID{alice.ID, bob.ID}, s.base)
	s.game("game-new", "pod-1", []model.UserID{alice.ID}, s.base.Add(48*time.Hour))
	s.game("game-mid", "pod-1", []model.UserID{alice.ID, bob.ID}, s.base.Add(24*time.Hour))

	games, err := s.store.FindGames(s.ctx, storage.GameFilter{PlayerID: alice.ID})
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("game-new"), games[0].ID)
	s.Equal(model.GameID("game-mid"), games[1].ID)
	s.Equal(model.GameID("game-old"), games[2].ID)

	bobs, err := s.store.FindGames(s.ctx, storage.GameFilter{PlayerID: bob.ID})
	s.Require().NoError(err)
	s.Len(bobs, 2)

	inPod, err := s.store.FindGames(s.ctx, storage.GameFilter{PodID: "pod-1"})
	s.Require().NoError(err)
	s.Len(inPod, 3)
}

func (s *Suite) TestUpdateGameSetsWinnerAndPlayers() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	carol := s.user("user-3", "carol")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID, carol.ID}, nil)
	s.game("game-1", "pod-1", []model.UserID{alice.ID, bob.ID}, s.base)
	end := s.base.Add(90 * time.Minute)

	_, err := s.store.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.PlayerIDs = []model.UserID{alice.ID, carol.ID}
		g.WinnerID = &carol.ID
		g.EndTime = &end
		return g.Validate()
	})
	s.Require().NoError(err)

	got, err := s.store.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID, carol.ID}, got.PlayerIDs)
	s.Require().NotNil(got.WinnerID)
	s.Equal(carol.ID, *got.WinnerID)
	s.Require().NotNil(got.EndTime)
	s.True(end.Equal(*got.EndTime))
	s.Equal(model.GameStatusCompleted, got.Status())
}

func (s *Suite) TestUpdateGameValidationFailureWritesNothing() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, nil)
	s.game("game-1", "pod-1", []model.UserID{alice.ID}, s.base)

	_, err := s.store.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.PlayerIDs = []model.UserID{bob.ID}
		g.WinnerID = &alice.ID
		return g.Validate()
	})
	s.ErrorIs(err, model.ErrValidation)

	got, err := s.store.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID}, got.PlayerIDs)
	s.Nil(got.WinnerID)
}

func (s *Suite) TestUpdateGameMovesPod() {
	alice := s.user("user-1", "alice")
	s.pod("pod-1", alice.ID, nil, nil)
	s.pod("pod-2", alice.ID, nil, nil)
	s.game("game-1", "pod-1", []model.UserID{alice.ID}, s.base)

	_, err := s.store.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.PodID = "pod-2"
		return nil
	})
	s.Require().NoError(err)

	games, err := s.store.FindGames(s.ctx, storage.GameFilter{PodID: "pod-2"})
	s.Require().NoError(err)
	s.Len(games, 1)

	_, err = s.store.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.PodID = "missing"
		return nil
	})
	s.ErrorIs(err, model.ErrPodNotFound)
}

func (s *Suite) TestDeleteGameTwice() {
	alice := s.user("user-1", "alice")
	s.pod("pod-1", alice.ID, nil, nil)
	s.game("game-1", "pod-1", []model.UserID{alice.ID}, s.base)

	s.Require().NoError(s.store.DeleteGame(s.ctx, "game-1"))
	s.ErrorIs(s.store.DeleteGame(s.ctx, "game-1"), model.ErrGameNotFound)
}

// Relationship tests

func (s *Suite) TestConnectIsAdditive() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	carol := s.user("user-3", "carol")
	d1 := s.deck("deck-1", alice.ID, 0)
	d2 := s.deck("deck-2", bob.ID, 0)
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, []model.DeckID{d1.ID})
	s.game("game-1", "pod-1", []model.UserID{alice.ID}, s.base)

	s.Require().NoError(s.store.Connect(s.ctx, storage.RelationPodMembers, "pod-1", []string{string(bob.ID), string(carol.ID)}))
	s.Require().NoError(s.store.Connect(s.ctx, storage.RelationPodDecks, "pod-1", []string{string(d2.ID)}))
	s.Require().NoError(s.store.Connect(s.ctx, storage.RelationGamePlayers, "game-1", []string{string(bob.ID)}))

	pod, err := s.store.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID, bob.ID, carol.ID}, pod.MemberIDs)
	s.Equal([]model.DeckID{d1.ID, d2.ID}, pod.DeckIDs)

	game, err := s.store.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID, bob.ID}, game.PlayerIDs)
}

func (s *Suite) TestConnectUnknownOwner() {
	s.ErrorIs(s.store.Connect(s.ctx, storage.RelationPodMembers, "nope", []string{"x"}), model.ErrPodNotFound)
	s.ErrorIs(s.store.Connect(s.ctx, storage.RelationGamePlayers, "nope", []string{"x"}), model.ErrGameNotFound)
}

func (s *Suite) TestReturnedValuesAreCopies() {
	alice := s.user("user-1", "alice")
	bob := s.user("user-2", "bob")
	s.pod("pod-1", alice.ID, []model.UserID{bob.ID}, nil)

	got, err := s.store.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	got.MemberIDs[1] = "tampered"

	again, err := s.store.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	s.Equal([]model.UserID{alice.ID, bob.ID}, again.MemberIDs)
}
