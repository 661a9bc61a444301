package model

import (
	"slices"
	"time"
)

// DeckID uniquely identifies a deck
type DeckID string

// MaxCommanders is the largest commander designation a deck can carry (partner pairs)
const MaxCommanders = 2

// Deck is a player's game configuration, private to its owner
type Deck struct {
	ID          DeckID
	OwnerID     UserID // immutable after creation
	Name        string
	Commanders  []string // ordered, 1-2 card names
	Description *string
	Links       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the deck
func (d *Deck) Clone() *Deck {
	c := *d
	c.Commanders = slices.Clone(d.Commanders)
	c.Links = slices.Clone(d.Links)
	c.Description = cloneString(d.Description)
	return &c
}
