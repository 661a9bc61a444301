package deck

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/dependencies/ids"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/validate"
)

// Input is the data for a new deck
type Input struct {
	Name        string
	Commanders  []string
	Description *string
	Links       []string
}

// Update carries the deck fields to change. Nil fields are left alone;
// an empty Description clears it and a non-nil empty Links clears the links.
type Update struct {
	Name        *string
	Commanders  []string
	Description *string
	Links       []string
}

// Service manages decks. Decks are private: every operation is scoped to the owner,
// and someone else's deck looks exactly like a deck that does not exist.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new deck service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Create adds a deck owned by the caller
func (s *Service) Create(ctx context.Context, id model.Identity, in Input) (*model.Deck, error) {
	verr := &model.ValidationError{}
	name := validate.Required(verr, "name", in.Name, validate.NameMaxLength)
	commanders := validate.Commanders(verr, "commanders", in.Commanders)
	description := normalizeDescription(verr, in.Description)
	links := in.Links
	if links == nil {
		links = []string{}
	}
	validate.URLs(verr, "links", links, validate.MaxLinks)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	deck := &model.Deck{
		ID:          model.DeckID(s.ids.NewID()),
		OwnerID:     id.UserID,
		Name:        name,
		Commanders:  commanders,
		Description: description,
		Links:       links,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.InsertDeck(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.Info("deck created",
		slog.String("deck_id", string(deck.ID)),
		slog.String("owner_id", string(deck.OwnerID)),
	)
	return deck, nil
}

// List returns the caller's decks, oldest first
func (s *Service) List(ctx context.Context, id model.Identity) ([]*model.Deck, error) {
	return s.storage.FindDecks(ctx, storage.DeckFilter{OwnerID: id.UserID})
}

// Get returns one of the caller's decks
func (s *Service) Get(ctx context.Context, id model.Identity, deckID model.DeckID) (*model.Deck, error) {
	deck, err := s.storage.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != id.UserID {
		return nil, model.ErrDeckNotFound
	}
	return deck, nil
}

// Update changes the provided fields of one of the caller's decks
func (s *Service) Update(ctx context.Context, id model.Identity, deckID model.DeckID, upd Update) (*model.Deck, error) {
	verr := &model.ValidationError{}
	var name string
	if upd.Name != nil {
		name = validate.Required(verr, "name", *upd.Name, validate.NameMaxLength)
	}
	var commanders []string
	if upd.Commanders != nil {
		commanders = validate.Commanders(verr, "commanders", upd.Commanders)
	}
	description := normalizeDescription(verr, upd.Description)
	if upd.Links != nil {
		validate.URLs(verr, "links", upd.Links, validate.MaxLinks)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	deck, err := s.storage.UpdateDeck(ctx, deckID, func(d *model.Deck) error {
		if d.OwnerID != id.UserID {
			return model.ErrDeckNotFound
		}
		if upd.Name != nil {
			d.Name = name
		}
		if upd.Commanders != nil {
			d.Commanders = commanders
		}
		if upd.Description != nil {
			d.Description = description
		}
		if upd.Links != nil {
			d.Links = upd.Links
		}
		d.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck updated", slog.String("deck_id", string(deckID)))
	return deck, nil
}

// Delete removes one of the caller's decks along with its pod associations
func (s *Service) Delete(ctx context.Context, id model.Identity, deckID model.DeckID) error {
	if _, err := s.Get(ctx, id, deckID); err != nil {
		return err
	}
	if err := s.storage.DeleteDeck(ctx, deckID); err != nil {
		return err
	}

	s.logger.Info("deck deleted", slog.String("deck_id", string(deckID)))
	return nil
}

// normalizeDescription trims the description; blank means no description
func normalizeDescription(verr *model.ValidationError, description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	validate.MaxLength(verr, "description", d, validate.DescriptionMax)
	return &d
}
