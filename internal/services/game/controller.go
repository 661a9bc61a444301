package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/dependencies/ids"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
)

// Input is the data for a new game
type Input struct {
	PodID     model.PodID
	PlayerIDs []model.UserID
	StartTime *time.Time // defaults to now
}

// Update carries the game fields to change. Nil fields are left alone.
// End time and winner can be set or changed but never cleared.
type Update struct {
	PodID     *model.PodID
	PlayerIDs []model.UserID
	EndTime   *time.Time
	WinnerID  *model.UserID
}

// Controller manages the game lifecycle: scheduled (no end time) to completed.
// A game is visible only to its players.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Create records a game in a pod the caller belongs to
func (c *Controller) Create(ctx context.Context, id model.Identity, in Input) (*model.Game, error) {
	if err := c.requirePodMember(ctx, id, in.PodID); err != nil {
		return nil, err
	}

	verr := &model.ValidationError{}
	players, err := c.checkPlayers(ctx, verr, in.PlayerIDs)
	if err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	start := now
	if in.StartTime != nil {
		start = in.StartTime.UTC()
	}

	game := &model.Game{
		ID:        model.GameID(c.ids.NewID()),
		PodID:     in.PodID,
		PlayerIDs: players,
		StartTime: start,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := c.storage.InsertGame(ctx, game); err != nil {
		if errors.Is(err, model.ErrPodNotFound) {
			// Pod vanished after the membership check
			return nil, model.ErrNotPodMember
		}
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("pod_id", string(game.PodID)),
		slog.Int("player_count", len(game.PlayerIDs)),
	)
	return game, nil
}

// List returns the games the caller played in, newest first
func (c *Controller) List(ctx context.Context, id model.Identity) ([]*model.Game, error) {
	return c.storage.FindGames(ctx, storage.GameFilter{PlayerID: id.UserID})
}

// Get returns a game the caller played in
func (c *Controller) Get(ctx context.Context, id model.Identity, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.HasPlayer(id.UserID) {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// Update changes a game the caller played in.
//
// The player check and the winner-in-players check both run against the row
// being written, inside the store's atomic update. Setting a winner on a
// scheduled game completes it.
func (c *Controller) Update(ctx context.Context, id model.Identity, gameID model.GameID, upd Update) (*model.Game, error) {
	verr := &model.ValidationError{}
	var players []model.UserID
	if upd.PlayerIDs != nil {
		var err error
		players, err = c.checkPlayers(ctx, verr, upd.PlayerIDs)
		if err != nil {
			return nil, err
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if upd.PodID != nil {
		if err := c.requirePodMember(ctx, id, *upd.PodID); err != nil {
			return nil, err
		}
	}

	var completed bool
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if !g.HasPlayer(id.UserID) {
			return model.ErrGameNotFound
		}
		wasScheduled := g.Status() == model.GameStatusScheduled
		now := c.clock.Now()

		if upd.PodID != nil {
			g.PodID = *upd.PodID
		}
		if upd.PlayerIDs != nil {
			g.PlayerIDs = players
		}
		if upd.EndTime != nil {
			end := upd.EndTime.UTC()
			g.EndTime = &end
		}
		if upd.WinnerID != nil {
			winner := *upd.WinnerID
			g.WinnerID = &winner
			if g.EndTime == nil {
				g.EndTime = &now
			}
		}
		if err := g.Validate(); err != nil {
			return err
		}
		g.UpdatedAt = now
		completed = wasScheduled && g.Status() == model.GameStatusCompleted
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrPodNotFound) {
			return nil, model.ErrNotPodMember
		}
		return nil, err
	}

	c.logger.Info("game updated", slog.String("game_id", string(game.ID)))
	if completed {
		attrs := []any{slog.String("game_id", string(game.ID))}
		if game.WinnerID != nil {
			attrs = append(attrs, slog.String("winner_id", string(*game.WinnerID)))
		}
		c.logger.Info("game completed", attrs...)
	}
	return game, nil
}

// Delete removes a game the caller played in
func (c *Controller) Delete(ctx context.Context, id model.Identity, gameID model.GameID) error {
	if _, err := c.Get(ctx, id, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	return nil
}

// requirePodMember forbids callers outside the pod. A missing pod gets the same
// answer so pod ids stay hidden.
func (c *Controller) requirePodMember(ctx context.Context, id model.Identity, podID model.PodID) error {
	pod, err := c.storage.GetPod(ctx, podID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotPodMember
		}
		return err
	}
	if !pod.HasMember(id.UserID) {
		return model.ErrNotPodMember
	}
	return nil
}

// checkPlayers deduplicates the player list and records empty or unknown players
func (c *Controller) checkPlayers(ctx context.Context, verr *model.ValidationError, playerIDs []model.UserID) ([]model.UserID, error) {
	players := model.UniqueUserIDs(playerIDs)
	if len(players) == 0 {
		verr.Add("playerIds", "at least one player is required")
		return players, nil
	}
	missing, err := c.storage.MissingUsers(ctx, players)
	if err != nil {
		return nil, fmt.Errorf("check players: %w", err)
	}
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = string(m)
		}
		verr.Add("playerIds", "unknown users: "+strings.Join(names, ", "))
	}
	return players, nil
}
