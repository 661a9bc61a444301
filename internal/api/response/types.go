package response

import (
	"time"

	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/user"
)

// User represents a user profile in API responses. It never carries the password hash.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"displayName,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserFromModel converts a model.Profile to a response User
func UserFromModel(p *model.Profile) User {
	return User{
		ID:          string(p.ID),
		Email:       p.Email,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// AuthResponse is the response for a successful login
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *user.Session) AuthResponse {
	return AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      UserFromModel(s.Profile),
	}
}

// Deck represents a deck in API responses
type Deck struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Commanders  []string  `json:"commanders"`
	Description *string   `json:"description,omitempty"`
	Links       []string  `json:"links"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeckFromModel converts a model.Deck to a response Deck
func DeckFromModel(d *model.Deck) Deck {
	links := d.Links
	if links == nil {
		links = []string{}
	}
	return Deck{
		ID:          string(d.ID),
		OwnerID:     string(d.OwnerID),
		Name:        d.Name,
		Commanders:  d.Commanders,
		Description: d.Description,
		Links:       links,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// DecksFromModel converts a list of decks
func DecksFromModel(decks []*model.Deck) []Deck {
	out := make([]Deck, len(decks))
	for i, d := range decks {
		out[i] = DeckFromModel(d)
	}
	return out
}

// Pod represents a pod in API responses
type Pod struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"memberIds"`
	DeckIDs   []string  `json:"deckIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PodFromModel converts a model.Pod to a response Pod
func PodFromModel(p *model.Pod) Pod {
	return Pod{
		ID:        string(p.ID),
		OwnerID:   string(p.OwnerID),
		Name:      p.Name,
		MemberIDs: toStrings(p.MemberIDs),
		DeckIDs:   toStrings(p.DeckIDs),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PodsFromModel converts a list of pods
func PodsFromModel(pods []*model.Pod) []Pod {
	out := make([]Pod, len(pods))
	for i, p := range pods {
		out[i] = PodFromModel(p)
	}
	return out
}

// Game represents a game in API responses
type Game struct {
	ID        string     `json:"id"`
	PodID     string     `json:"podId"`
	PlayerIDs []string   `json:"playerIds"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	WinnerID  *string    `json:"winnerId"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	out := Game{
		ID:        string(g.ID),
		PodID:     string(g.PodID),
		PlayerIDs: toStrings(g.PlayerIDs),
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
		Status:    string(g.Status()),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.WinnerID != nil {
		w := string(*g.WinnerID)
		out.WinnerID = &w
	}
	return out
}

// GamesFromModel converts a list of games
func GamesFromModel(games []*model.Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

func toStrings[T ~string](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
