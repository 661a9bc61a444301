package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for changing the caller's profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
}

// DeckRequest is the request body for creating or updating a deck.
// On create, name and commanders are required.
type DeckRequest struct {
	Name        *string    `json:"name"`
	Commanders  Commanders `json:"commanders"`
	Description *string    `json:"description"`
	Links       *[]string  `json:"links"`
}

// PodRequest is the request body for creating or updating a pod
type PodRequest struct {
	Name      *string   `json:"name"`
	MemberIDs *[]string `json:"memberIds"`
	DeckIDs   *[]string `json:"deckIds"`
}

// AddMembersRequest is the request body for adding members to a pod
type AddMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

// CreateGameRequest is the request body for recording a game
type CreateGameRequest struct {
	PodID     string     `json:"podId"`
	PlayerIDs []string   `json:"playerIds"`
	StartTime *time.Time `json:"startTime"`
}

// UpdateGameRequest is the request body for updating a game.
// End time and winner can be set but not cleared, so an explicit null is rejected.
type UpdateGameRequest struct {
	PodID     *string             `json:"podId"`
	PlayerIDs *[]string           `json:"playerIds"`
	EndTime   Optional[time.Time] `json:"endTime"`
	WinnerID  Optional[string]    `json:"winnerId"`
}

// Commanders accepts either a single card name or a list of names
type Commanders struct {
	Set    bool
	Values []string
}

// UnmarshalJSON decodes a string or an array of strings
func (c *Commanders) UnmarshalJSON(data []byte) error {
	c.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		c.Values = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		c.Values = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("commanders must be a string or a list of strings")
	}
	c.Values = list
	return nil
}

// Optional records whether a field was present and whether it was null
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON decodes the value, remembering presence and null
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
