package deck

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/podtracker/internal/dependencies/mocks"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage/memory"
	"github.com/mcoot/podtracker/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context

	alice model.Identity
	bob   model.Identity
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.StartTime)
	s.ids = mocks.NewMockIDs()
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = testutil.SeedUser(s.T(), s.storage, "alice-id", "alice")
	s.bob = testutil.SeedUser(s.T(), s.storage, "bob-id", "bob")
}

func (s *ServiceSuite) create(owner model.Identity, name string) *model.Deck {
	deck, err := s.service.Create(s.ctx, owner, Input{Name: name, Commanders: []string{"Atraxa, Praetors' Voice"}})
	s.Require().NoError(err)
	return deck
}

// Create tests

func (s *ServiceSuite) TestCreateSucceeds() {
	s.ids.Queue("deck-1")
	desc := "  Superfriends  "

	deck, err := s.service.Create(s.ctx, s.alice, Input{
		Name:        " Partners ",
		Commanders:  []string{"Thrasios, Triton Hero", "Tymna the Weaver"},
		Description: &desc,
		Links:       []string{"https://moxfield.com/decks/abc"},
	})
	s.Require().NoError(err)

	s.Equal(model.DeckID("deck-1"), deck.ID)
	s.Equal(s.alice.UserID, deck.OwnerID)
	s.Equal("Partners", deck.Name)
	s.Equal([]string{"Thrasios, Triton Hero", "Tymna the Weaver"}, deck.Commanders)
	s.Equal("Superfriends", *deck.Description)
	s.Equal(testutil.StartTime, deck.CreatedAt)

	stored, err := s.storage.GetDeck(s.ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal(deck.Name, stored.Name)
}

func (s *ServiceSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, s.alice, Input{Name: "  ", Commanders: []string{""}})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Create(s.ctx, s.alice, Input{Name: "Deck", Commanders: nil})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Create(s.ctx, s.alice, Input{Name: "Deck", Commanders: []string{"a", "b", "c"}})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Create(s.ctx, s.alice, Input{Name: strings.Repeat("x", 101), Commanders: []string{"a"}})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Create(s.ctx, s.alice, Input{Name: "Deck", Commanders: []string{"a"}, Links: []string{"not a url"}})
	s.ErrorIs(err, model.ErrValidation)

	decks, _ := s.service.List(s.ctx, s.alice)
	s.Empty(decks)
}

// List tests

func (s *ServiceSuite) TestListOnlyOwnDecksOldestFirst() {
	first := s.create(s.alice, "First")
	s.clock.Advance(time.Minute)
	second := s.create(s.alice, "Second")
	s.create(s.bob, "Bob's")

	decks, err := s.service.List(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Equal(first.ID, decks[0].ID)
	s.Equal(second.ID, decks[1].ID)
}

func (s *ServiceSuite) TestListEmpty() {
	decks, err := s.service.List(s.ctx, s.alice)
	s.Require().NoError(err)
	s.NotNil(decks)
	s.Empty(decks)
}

// Isolation tests

func (s *ServiceSuite) TestOtherUsersDeckLooksMissing() {
	deck := s.create(s.alice, "Secret")

	_, foreignErr := s.service.Get(s.ctx, s.bob, deck.ID)
	_, missingErr := s.service.Get(s.ctx, s.bob, "does-not-exist")

	s.ErrorIs(foreignErr, model.ErrNotFound)
	s.ErrorIs(missingErr, model.ErrNotFound)
	s.Equal(missingErr.Error(), foreignErr.Error())
}

func (s *ServiceSuite) TestDeckIsolationScenario() {
	deck := s.create(s.alice, "Secret")
	newName := "Stolen"

	_, err := s.service.Update(s.ctx, s.bob, deck.ID, Update{Name: &newName})
	s.ErrorIs(err, model.ErrNotFound)

	err = s.service.Delete(s.ctx, s.bob, deck.ID)
	s.ErrorIs(err, model.ErrNotFound)

	bobs, err := s.service.List(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Empty(bobs)

	got, err := s.service.Get(s.ctx, s.alice, deck.ID)
	s.Require().NoError(err)
	s.Equal("Secret", got.Name)
	s.Equal(s.alice.UserID, got.OwnerID)
}

// Update tests

func (s *ServiceSuite) TestUpdateOnlyProvidedFields() {
	deck := s.create(s.alice, "Original")
	s.clock.Advance(time.Hour)
	desc := "now with notes"

	updated, err := s.service.Update(s.ctx, s.alice, deck.ID, Update{
		Commanders:  []string{"Kinnan, Bonder Prodigy"},
		Description: &desc,
	})
	s.Require().NoError(err)
	s.Equal("Original", updated.Name)
	s.Equal([]string{"Kinnan, Bonder Prodigy"}, updated.Commanders)
	s.Equal("now with notes", *updated.Description)
	s.Equal(s.alice.UserID, updated.OwnerID)
	s.Equal(testutil.StartTime.Add(time.Hour), updated.UpdatedAt)
	s.Equal(testutil.StartTime, updated.CreatedAt)
}

func (s *ServiceSuite) TestUpdateClearsDescriptionAndLinks() {
	desc := "notes"
	deck, err := s.service.Create(s.ctx, s.alice, Input{
		Name:        "Deck",
		Commanders:  []string{"Edgar Markov"},
		Description: &desc,
		Links:       []string{"https://archidekt.com/decks/1"},
	})
	s.Require().NoError(err)
	blank := ""

	updated, err := s.service.Update(s.ctx, s.alice, deck.ID, Update{Description: &blank, Links: []string{}})
	s.Require().NoError(err)
	s.Nil(updated.Description)
	s.Empty(updated.Links)
}

func (s *ServiceSuite) TestUpdateValidation() {
	deck := s.create(s.alice, "Deck")
	blank := " "

	_, err := s.service.Update(s.ctx, s.alice, deck.ID, Update{Name: &blank})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Update(s.ctx, s.alice, deck.ID, Update{Commanders: []string{}})
	s.ErrorIs(err, model.ErrValidation)

	got, _ := s.service.Get(s.ctx, s.alice, deck.ID)
	s.Equal("Deck", got.Name)
}

// Delete tests

func (s *ServiceSuite) TestDeleteTwice() {
	deck := s.create(s.alice, "Deck")

	s.Require().NoError(s.service.Delete(s.ctx, s.alice, deck.ID))
	s.ErrorIs(s.service.Delete(s.ctx, s.alice, deck.ID), model.ErrNotFound)
}

func (s *ServiceSuite) TestDeleteRemovesPodAssociation() {
	deck := s.create(s.alice, "Deck")
	pod := &model.Pod{ID: "pod-1", OwnerID: s.alice.UserID, Name: "Pod", NameKey: "pod", CreatedAt: s.clock.Now()}
	pod.SetMembers(nil)
	pod.SetDecks([]model.DeckID{deck.ID})
	s.Require().NoError(s.storage.InsertPod(s.ctx, pod))

	s.Require().NoError(s.service.Delete(s.ctx, s.alice, deck.ID))

	stored, err := s.storage.GetPod(s.ctx, "pod-1")
	s.Require().NoError(err)
	s.Empty(stored.DeckIDs)
}
