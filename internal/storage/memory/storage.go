package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Every value handed in or out is copied so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	emailIndex    map[string]model.UserID
	usernameIndex map[string]model.UserID
	decks         map[model.DeckID]*model.Deck
	pods          map[model.PodID]*model.Pod
	podNameIndex  map[string]model.PodID
	games         map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		emailIndex:    make(map[string]model.UserID),
		usernameIndex: make(map[string]model.UserID),
		decks:         make(map[model.DeckID]*model.Deck),
		pods:          make(map[model.PodID]*model.Pod),
		podNameIndex:  make(map[string]model.PodID),
		games:         make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) InsertUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, model.ErrConflict)
	}
	if _, ok := s.emailIndex[user.Email]; ok {
		return model.ErrEmailTaken
	}
	if _, ok := s.usernameIndex[user.Username]; ok {
		return model.ErrUsernameTaken
	}
	s.users[user.ID] = user.Clone()
	s.emailIndex[user.Email] = user.ID
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *Storage) UpdateUser(ctx context.Context, id model.UserID, fn func(*model.User) error) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	// Identity fields are owned by the store indexes
	updated.ID = current.ID
	updated.Email = current.Email
	updated.Username = current.Username
	s.users[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}

	for deckID, deck := range s.decks {
		if deck.OwnerID == id {
			s.deleteDeckLocked(deckID)
		}
	}
	for _, pod := range s.pods {
		pod.MemberIDs = slices.DeleteFunc(pod.MemberIDs, func(m model.UserID) bool { return m == id })
	}
	for _, game := range s.games {
		game.PlayerIDs = slices.DeleteFunc(game.PlayerIDs, func(p model.UserID) bool { return p == id })
		if game.WinnerID != nil && *game.WinnerID == id {
			game.WinnerID = nil
		}
	}

	delete(s.emailIndex, user.Email)
	delete(s.usernameIndex, user.Username)
	delete(s.users, id)
	return nil
}

func (s *Storage) MissingUsers(ctx context.Context, ids []model.UserID) ([]model.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []model.UserID
	for _, id := range model.UniqueUserIDs(ids) {
		if _, ok := s.users[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Deck operations

func (s *Storage) InsertDeck(ctx context.Context, deck *model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[deck.ID]; ok {
		return fmt.Errorf("deck %s: %w", deck.ID, model.ErrConflict)
	}
	s.decks[deck.ID] = deck.Clone()
	return nil
}

func (s *Storage) GetDeck(ctx context.Context, id model.DeckID) (*model.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[id]
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	return deck.Clone(), nil
}

func (s *Storage) FindDecks(ctx context.Context, filter storage.DeckFilter) ([]*model.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decks := []*model.Deck{}
	for _, deck := range s.decks {
		if filter.OwnerID != "" && deck.OwnerID != filter.OwnerID {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, deck.ID) {
			continue
		}
		decks = append(decks, deck.Clone())
	}
	slices.SortFunc(decks, func(a, b *model.Deck) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return decks, nil
}

func (s *Storage) UpdateDeck(ctx context.Context, id model.DeckID, fn func(*model.Deck) error) (*model.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.decks[id]
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.OwnerID = current.OwnerID
	s.decks[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) DeleteDeck(ctx context.Context, id model.DeckID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return model.ErrDeckNotFound
	}
	s.deleteDeckLocked(id)
	return nil
}

// deleteDeckLocked removes a deck and its pod associations. Caller holds mu.
func (s *Storage) deleteDeckLocked(id model.DeckID) {
	for _, pod := range s.pods {
		pod.DeckIDs = slices.DeleteFunc(pod.DeckIDs, func(d model.DeckID) bool { return d == id })
	}
	delete(s.decks, id)
}

// Pod operations

func (s *Storage) InsertPod(ctx context.Context, pod *model.Pod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pods[pod.ID]; ok {
		return fmt.Errorf("pod %s: %w", pod.ID, model.ErrConflict)
	}
	if _, ok := s.podNameIndex[pod.NameKey]; ok {
		return model.ErrPodNameTaken
	}
	s.pods[pod.ID] = pod.Clone()
	s.podNameIndex[pod.NameKey] = pod.ID
	return nil
}

func (s *Storage) GetPod(ctx context.Context, id model.PodID) (*model.Pod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pod, ok := s.pods[id]
	if !ok {
		return nil, model.ErrPodNotFound
	}
	return pod.Clone(), nil
}

func (s *Storage) FindPods(ctx context.Context, filter storage.PodFilter) ([]*model.Pod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pods := []*model.Pod{}
	for _, pod := range s.pods {
		if filter.OwnerID != "" && pod.OwnerID != filter.OwnerID {
			continue
		}
		if filter.MemberID != "" && !pod.HasMember(filter.MemberID) {
			continue
		}
		pods = append(pods, pod.Clone())
	}
	slices.SortFunc(pods, func(a, b *model.Pod) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return pods, nil
}

func (s *Storage) UpdatePod(ctx context.Context, id model.PodID, fn func(*model.Pod) error) (*model.Pod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.pods[id]
	if !ok {
		return nil, model.ErrPodNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.OwnerID = current.OwnerID

	if updated.NameKey != current.NameKey {
		if owner, ok := s.podNameIndex[updated.NameKey]; ok && owner != id {
			return nil, model.ErrPodNameTaken
		}
		delete(s.podNameIndex, current.NameKey)
		s.podNameIndex[updated.NameKey] = id
	}
	s.pods[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) DeletePod(ctx context.Context, id model.PodID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pod, ok := s.pods[id]
	if !ok {
		return model.ErrPodNotFound
	}
	for gameID, game := range s.games {
		if game.PodID == id {
			delete(s.games, gameID)
		}
	}
	delete(s.podNameIndex, pod.NameKey)
	delete(s.pods, id)
	return nil
}

// Game operations

func (s *Storage) InsertGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return fmt.Errorf("game %s: %w", game.ID, model.ErrConflict)
	}
	if _, ok := s.pods[game.PodID]; !ok {
		return model.ErrPodNotFound
	}
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) FindGames(ctx context.Context, filter storage.GameFilter) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := []*model.Game{}
	for _, game := range s.games {
		if filter.PodID != "" && game.PodID != filter.PodID {
			continue
		}
		if filter.PlayerID != "" && !game.HasPlayer(filter.PlayerID) {
			continue
		}
		games = append(games, game.Clone())
	}
	// Most recent first
	slices.SortFunc(games, func(a, b *model.Game) int {
		return cmp.Or(b.StartTime.Compare(a.StartTime), cmp.Compare(a.ID, b.ID))
	})
	return games, nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn func(*model.Game) error) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	if _, ok := s.pods[updated.PodID]; !ok {
		return nil, model.ErrPodNotFound
	}
	s.games[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return model.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

// Relationship operations

func (s *Storage) Connect(ctx context.Context, rel storage.Relation, ownerID string, relatedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch rel {
	case storage.RelationPodMembers:
		pod, ok := s.pods[model.PodID(ownerID)]
		if !ok {
			return model.ErrPodNotFound
		}
		pod.MemberIDs = model.UniqueUserIDs(append(pod.MemberIDs, toIDs[model.UserID](relatedIDs)...))
	case storage.RelationPodDecks:
		pod, ok := s.pods[model.PodID(ownerID)]
		if !ok {
			return model.ErrPodNotFound
		}
		pod.DeckIDs = model.UniqueDeckIDs(append(pod.DeckIDs, toIDs[model.DeckID](relatedIDs)...))
	case storage.RelationGamePlayers:
		game, ok := s.games[model.GameID(ownerID)]
		if !ok {
			return model.ErrGameNotFound
		}
		game.PlayerIDs = model.UniqueUserIDs(append(game.PlayerIDs, toIDs[model.UserID](relatedIDs)...))
	default:
		return fmt.Errorf("unknown relation %q", rel)
	}
	return nil
}

func toIDs[T ~string](ids []string) []T {
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = T(id)
	}
	return out
}
