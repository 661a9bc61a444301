package model

import (
	"slices"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameStatus is the lifecycle stage of a game
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled" // Started, no end time yet
	GameStatusCompleted GameStatus = "completed" // End time recorded, terminal
)

// Game is one recorded play session within a pod
type Game struct {
	ID        GameID
	PodID     PodID
	PlayerIDs []UserID // never empty
	StartTime time.Time
	EndTime   *time.Time
	WinnerID  *UserID // must be one of PlayerIDs
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status derives the lifecycle stage from the recorded times
func (g *Game) Status() GameStatus {
	if g.EndTime != nil {
		return GameStatusCompleted
	}
	return GameStatusScheduled
}

// HasPlayer returns true if the user took part in the game
func (g *Game) HasPlayer(userID UserID) bool {
	return slices.Contains(g.PlayerIDs, userID)
}

// Validate checks the structural invariants of a game
func (g *Game) Validate() error {
	verr := &ValidationError{}
	if len(g.PlayerIDs) == 0 {
		verr.Add("playerIds", "at least one player is required")
	}
	if g.WinnerID != nil && !g.HasPlayer(*g.WinnerID) {
		verr.Add("winnerId", "winner must be one of the game's players")
	}
	if g.EndTime != nil && g.EndTime.Before(g.StartTime) {
		verr.Add("endTime", "end time cannot be before start time")
	}
	return verr.Err()
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.PlayerIDs = slices.Clone(g.PlayerIDs)
	if g.EndTime != nil {
		t := *g.EndTime
		c.EndTime = &t
	}
	if g.WinnerID != nil {
		w := *g.WinnerID
		c.WinnerID = &w
	}
	return &c
}
