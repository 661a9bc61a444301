package storage

import (
	"context"

	"github.com/mcoot/podtracker/internal/model"
)

// Relation names a many-to-many relationship maintained by the store
type Relation string

const (
	RelationPodMembers  Relation = "pod_members"  // pod -> users
	RelationPodDecks    Relation = "pod_decks"    // pod -> decks
	RelationGamePlayers Relation = "game_players" // game -> users
)

// DeckFilter selects decks in FindDecks. Zero fields are ignored.
type DeckFilter struct {
	OwnerID model.UserID
	IDs     []model.DeckID // empty means any id
}

// PodFilter selects pods in FindPods. Zero fields are ignored.
type PodFilter struct {
	OwnerID  model.UserID
	MemberID model.UserID // matches the owner as well as members
}

// GameFilter selects games in FindGames. Zero fields are ignored.
type GameFilter struct {
	PodID    model.PodID
	PlayerID model.UserID
}

// Storage defines the interface for data persistence.
//
// Update* operations are atomic read-modify-write: the store loads the current
// row, passes a private copy to fn, and persists the result (scalar fields and
// relation sets) in the same transaction. If fn returns an error nothing is
// written and that error is returned unchanged.
type Storage interface {
	// User operations
	InsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUser(ctx context.Context, id model.UserID, fn func(*model.User) error) (*model.User, error)
	// DeleteUser removes the user, their decks (and those decks' pod
	// associations), their pod memberships and their game seats.
	DeleteUser(ctx context.Context, id model.UserID) error
	// MissingUsers returns the ids that do not resolve to a stored user
	MissingUsers(ctx context.Context, ids []model.UserID) ([]model.UserID, error)

	// Deck operations
	InsertDeck(ctx context.Context, deck *model.Deck) error
	GetDeck(ctx context.Context, id model.DeckID) (*model.Deck, error)
	FindDecks(ctx context.Context, filter DeckFilter) ([]*model.Deck, error)
	UpdateDeck(ctx context.Context, id model.DeckID, fn func(*model.Deck) error) (*model.Deck, error)
	// DeleteDeck removes the deck and its pod associations
	DeleteDeck(ctx context.Context, id model.DeckID) error

	// Pod operations
	InsertPod(ctx context.Context, pod *model.Pod) error
	GetPod(ctx context.Context, id model.PodID) (*model.Pod, error)
	FindPods(ctx context.Context, filter PodFilter) ([]*model.Pod, error)
	UpdatePod(ctx context.Context, id model.PodID, fn func(*model.Pod) error) (*model.Pod, error)
	// DeletePod removes the pod and every game recorded in it
	DeletePod(ctx context.Context, id model.PodID) error

	// Game operations
	InsertGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	FindGames(ctx context.Context, filter GameFilter) ([]*model.Game, error)
	UpdateGame(ctx context.Context, id model.GameID, fn func(*model.Game) error) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Connect adds relatedIDs to a relation of ownerID, keeping existing entries.
	// Replacing a relation wholesale goes through the matching Update* callback.
	Connect(ctx context.Context, rel Relation, ownerID string, relatedIDs []string) error
}
