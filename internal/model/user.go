package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Identity is the resolved caller of a domain operation.
// It is derived from a verified credential and passed explicitly into every call.
type Identity struct {
	UserID UserID
}

// User is a registered account. PasswordHash never leaves the service layer;
// use Profile for anything returned to callers.
type User struct {
	ID           UserID
	Email        string // unique, lower-cased
	Username     string // unique
	PasswordHash string // bcrypt hash
	DisplayName  *string
	Bio          *string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a user
type Profile struct {
	ID          UserID
	Email       string
	Username    string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile returns the user without credential data
func (u *User) Profile() *Profile {
	return &Profile{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	c := *u
	c.DisplayName = cloneString(u.DisplayName)
	c.Bio = cloneString(u.Bio)
	c.AvatarURL = cloneString(u.AvatarURL)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
