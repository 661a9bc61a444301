package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/podtracker/internal/dependencies/mocks"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage/memory"
	"github.com/mcoot/podtracker/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ids        *mocks.MockIDs
	controller *Controller
	ctx        context.Context

	alice model.Identity
	bob   model.Identity
	carol model.Identity
	pod   *model.Pod
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.StartTime)
	s.ids = mocks.NewMockIDs()
	s.controller = NewController(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = testutil.SeedUser(s.T(), s.storage, "alice-id", "alice")
	s.bob = testutil.SeedUser(s.T(), s.storage, "bob-id", "bob")
	s.carol = testutil.SeedUser(s.T(), s.storage, "carol-id", "carol")
	s.pod = s.seedPod("pod-1", s.alice, s.bob.UserID)
}

func (s *ControllerSuite) seedPod(id string, owner model.Identity, members ...model.UserID) *model.Pod {
	pod := &model.Pod{ID: model.PodID(id), OwnerID: owner.UserID, Name: id, NameKey: id, CreatedAt: s.clock.Now()}
	pod.SetMembers(members)
	s.Require().NoError(s.storage.InsertPod(s.ctx, pod))
	return pod
}

func (s *ControllerSuite) create(players ...model.UserID) *model.Game {
	game, err := s.controller.Create(s.ctx, s.alice, Input{PodID: s.pod.ID, PlayerIDs: players})
	s.Require().NoError(err)
	return game
}

// Create tests

func (s *ControllerSuite) TestCreateDefaultsStartTime() {
	s.ids.Queue("game-1")

	game, err := s.controller.Create(s.ctx, s.bob, Input{PodID: s.pod.ID, PlayerIDs: []model.UserID{s.alice.UserID, s.bob.UserID, s.alice.UserID}})
	s.Require().NoError(err)

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal(testutil.StartTime, game.StartTime)
	s.Equal([]model.UserID{s.alice.UserID, s.bob.UserID}, game.PlayerIDs)
	s.Equal(model.GameStatusScheduled, game.Status())
	s.Nil(game.WinnerID)
}

func (s *ControllerSuite) TestCreateWithStartTime() {
	start := testutil.StartTime.Add(-2 * time.Hour)

	game, err := s.controller.Create(s.ctx, s.alice, Input{PodID: s.pod.ID, PlayerIDs: []model.UserID{s.alice.UserID}, StartTime: &start})
	s.Require().NoError(err)
	s.Equal(start, game.StartTime)
}

func (s *ControllerSuite) TestCreateForbiddenOutsidePod() {
	_, err := s.controller.Create(s.ctx, s.carol, Input{PodID: s.pod.ID, PlayerIDs: []model.UserID{s.carol.UserID}})
	s.ErrorIs(err, model.ErrForbidden)

	// A missing pod looks the same as someone else's pod
	_, missing := s.controller.Create(s.ctx, s.carol, Input{PodID: "nope", PlayerIDs: []model.UserID{s.carol.UserID}})
	s.ErrorIs(missing, model.ErrForbidden)
	s.Equal(err.Error(), missing.Error())
}

func (s *ControllerSuite) TestCreateRequiresPlayers() {
	_, err := s.controller.Create(s.ctx, s.alice, Input{PodID: s.pod.ID})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.controller.Create(s.ctx, s.alice, Input{PodID: s.pod.ID, PlayerIDs: []model.UserID{"ghost"}})
	s.ErrorIs(err, model.ErrValidation)
}

// Visibility tests

func (s *ControllerSuite) TestListNewestFirst() {
	old := s.create(s.alice.UserID)
	s.clock.Advance(time.Hour)
	recent := s.create(s.alice.UserID, s.bob.UserID)

	games, err := s.controller.List(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(recent.ID, games[0].ID)
	s.Equal(old.ID, games[1].ID)

	bobs, err := s.controller.List(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Require().Len(bobs, 1)
	s.Equal(recent.ID, bobs[0].ID)
}

func (s *ControllerSuite) TestGetOnlyForPlayers() {
	game := s.create(s.alice.UserID)

	_, err := s.controller.Get(s.ctx, s.alice, game.ID)
	s.NoError(err)

	// Bob is in the pod but did not play
	_, err = s.controller.Get(s.ctx, s.bob, game.ID)
	s.ErrorIs(err, model.ErrNotFound)
}

// Winner scenario

func (s *ControllerSuite) TestWinnerScenario() {
	solo := s.seedPod("pod-solo", s.alice)
	game, err := s.controller.Create(s.ctx, s.alice, Input{PodID: solo.ID, PlayerIDs: []model.UserID{s.alice.UserID}})
	s.Require().NoError(err)

	winner := s.alice.UserID
	_, err = s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &winner})
	s.Require().NoError(err)

	got, err := s.controller.Get(s.ctx, s.alice, game.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.WinnerID)
	s.Equal(s.alice.UserID, *got.WinnerID)

	outsider := s.bob.UserID
	_, err = s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &outsider})
	s.ErrorIs(err, model.ErrValidation)

	got, _ = s.controller.Get(s.ctx, s.alice, game.ID)
	s.Equal(s.alice.UserID, *got.WinnerID)
}

func (s *ControllerSuite) TestWinnerValidatedAgainstNewPlayers() {
	game := s.create(s.alice.UserID)
	winner := s.bob.UserID

	// Bob becomes a player in the same update that names him winner
	updated, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{
		PlayerIDs: []model.UserID{s.alice.UserID, s.bob.UserID},
		WinnerID:  &winner,
	})
	s.Require().NoError(err)
	s.Equal(s.bob.UserID, *updated.WinnerID)
	s.True(updated.HasPlayer(*updated.WinnerID))
}

func (s *ControllerSuite) TestReplacingPlayersMustKeepWinner() {
	game := s.create(s.alice.UserID, s.bob.UserID)
	winner := s.bob.UserID
	_, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &winner})
	s.Require().NoError(err)

	_, err = s.controller.Update(s.ctx, s.alice, game.ID, Update{PlayerIDs: []model.UserID{s.alice.UserID, s.carol.UserID}})
	s.ErrorIs(err, model.ErrValidation)

	got, _ := s.controller.Get(s.ctx, s.alice, game.ID)
	s.Equal([]model.UserID{s.alice.UserID, s.bob.UserID}, got.PlayerIDs)
}

// State machine tests

func (s *ControllerSuite) TestSettingWinnerCompletesGame() {
	game := s.create(s.alice.UserID, s.bob.UserID)
	s.clock.Advance(90 * time.Minute)
	winner := s.bob.UserID

	updated, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &winner})
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, updated.Status())
	s.Require().NotNil(updated.EndTime)
	s.Equal(testutil.StartTime.Add(90*time.Minute), *updated.EndTime)
}

func (s *ControllerSuite) TestSettingEndTimeCompletesWithoutWinner() {
	game := s.create(s.alice.UserID)
	end := testutil.StartTime.Add(time.Hour)

	updated, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{EndTime: &end})
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, updated.Status())
	s.Nil(updated.WinnerID)
}

func (s *ControllerSuite) TestCompletedGameWinnerCanBeCorrected() {
	game := s.create(s.alice.UserID, s.bob.UserID)
	first := s.alice.UserID
	_, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &first})
	s.Require().NoError(err)
	endBefore, _ := s.controller.Get(s.ctx, s.alice, game.ID)

	s.clock.Advance(time.Hour)
	corrected := s.bob.UserID
	updated, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &corrected})
	s.Require().NoError(err)
	s.Equal(s.bob.UserID, *updated.WinnerID)
	s.Equal(*endBefore.EndTime, *updated.EndTime)
}

func (s *ControllerSuite) TestEndTimeBeforeStartRejected() {
	game := s.create(s.alice.UserID)
	end := testutil.StartTime.Add(-time.Minute)

	_, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{EndTime: &end})
	s.ErrorIs(err, model.ErrValidation)
}

// Update access tests

func (s *ControllerSuite) TestUpdateByNonPlayerNotFound() {
	game := s.create(s.alice.UserID)
	winner := s.bob.UserID

	_, err := s.controller.Update(s.ctx, s.bob, game.ID, Update{WinnerID: &winner})
	s.ErrorIs(err, model.ErrNotFound)

	_, err = s.controller.Update(s.ctx, s.alice, "missing", Update{})
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestUpdateMovesPod() {
	other := s.seedPod("pod-2", s.bob, s.alice.UserID)
	game := s.create(s.alice.UserID)

	updated, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{PodID: &other.ID})
	s.Require().NoError(err)
	s.Equal(other.ID, updated.PodID)
}

func (s *ControllerSuite) TestUpdateMoveRequiresTargetMembership() {
	foreign := s.seedPod("pod-carol", s.carol)
	game := s.create(s.alice.UserID)

	_, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{PodID: &foreign.ID})
	s.ErrorIs(err, model.ErrForbidden)

	missing := model.PodID("nope")
	_, err = s.controller.Update(s.ctx, s.alice, game.ID, Update{PodID: &missing})
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ControllerSuite) TestUpdateRejectsEmptyPlayers() {
	game := s.create(s.alice.UserID)

	_, err := s.controller.Update(s.ctx, s.alice, game.ID, Update{PlayerIDs: []model.UserID{}})
	s.ErrorIs(err, model.ErrValidation)
}

// Delete tests

func (s *ControllerSuite) TestDeleteTwice() {
	game := s.create(s.alice.UserID)

	s.Require().NoError(s.controller.Delete(s.ctx, s.alice, game.ID))
	s.ErrorIs(s.controller.Delete(s.ctx, s.alice, game.ID), model.ErrNotFound)
}

func (s *ControllerSuite) TestDeleteByNonPlayerNotFound() {
	game := s.create(s.alice.UserID)

	s.ErrorIs(s.controller.Delete(s.ctx, s.bob, game.ID), model.ErrNotFound)
	_, err := s.storage.GetGame(s.ctx, game.ID)
	s.NoError(err)
}

// Concurrency

func (s *ControllerSuite) TestConcurrentPlayerAndWinnerUpdatesKeepWinnerAmongPlayers() {
	game := s.create(s.alice.UserID, s.bob.UserID, s.carol.UserID)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			winner := s.bob.UserID
			if i%2 == 0 {
				winner = s.carol.UserID
			}
			_, _ = s.controller.Update(s.ctx, s.alice, game.ID, Update{WinnerID: &winner})
		}()
		go func() {
			defer wg.Done()
			players := []model.UserID{s.alice.UserID, s.bob.UserID}
			if i%2 == 0 {
				players = []model.UserID{s.alice.UserID, s.carol.UserID}
			}
			_, _ = s.controller.Update(s.ctx, s.alice, game.ID, Update{PlayerIDs: players})
		}()
	}
	wg.Wait()

	got, err := s.controller.Get(s.ctx, s.alice, game.ID)
	s.Require().NoError(err)
	if got.WinnerID != nil {
		s.True(got.HasPlayer(*got.WinnerID))
	}
}
