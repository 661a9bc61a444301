package user

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
	"github.com/mcoot/podtracker/internal/services/auth"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/validate"
)

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// ProfileUpdate carries the profile fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// Session is the result of a successful login
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   *model.Profile
}

// Service manages accounts and logins
type Service struct {
	storage     storage.Storage
	credentials *auth.Credentials
	clock       clock.Clock
	ids         ids.Generator
	logger      *slog.Logger
}

// New creates a new user service
func New(
	storage storage.Storage,
	credentials *auth.Credentials,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:     storage,
		credentials: credentials,
		clock:       clock,
		ids:         ids,
		logger:      logger,
	}
}

// Register creates an account. Email and username must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	verr := &model.ValidationError{}
	email := validate.Email(verr, "email", in.Email)
	username := validate.Username(verr, "username", in.Username)
	validate.Password(verr, "password", in.Password)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	// Pre-check for a friendly error; the store's unique constraints settle races
	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if _, err := s.storage.GetUserByUsername(ctx, username); err == nil {
		return nil, model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hash, err := s.credentials.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(s.ids.NewID()),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
	)
	return user.Profile(), nil
}

// AuthenticateCredentials checks an email/password pair and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) AuthenticateCredentials(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.credentials.VerifyNothing(password)
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.credentials.Verify(user.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}

	tok, err := s.credentials.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", string(user.ID)))
	return &Session{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		Profile:   user.Profile(),
	}, nil
}

// GetCurrentUser returns the caller's profile
func (s *Service) GetCurrentUser(ctx context.Context, id model.Identity) (*model.Profile, error) {
	user, err := s.storage.GetUser(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateProfile changes the caller's own profile fields
func (s *Service) UpdateProfile(ctx context.Context, id model.Identity, upd ProfileUpdate) (*model.Profile, error) {
	verr := &model.ValidationError{}
	var displayName, bio, avatar *string
	if upd.DisplayName != nil {
		v := validate.Required(verr, "displayName", *upd.DisplayName, validate.DisplayNameMax)
		displayName = &v
	}
	if upd.Bio != nil {
		v := strings.TrimSpace(*upd.Bio)
		validate.MaxLength(verr, "bio", v, validate.BioMaxLength)
		bio = &v
	}
	if upd.AvatarURL != nil {
		v := strings.TrimSpace(*upd.AvatarURL)
		validate.HTTPURL(verr, "avatarUrl", v)
		avatar = &v
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateUser(ctx, id.UserID, func(u *model.User) error {
		if displayName != nil {
			u.DisplayName = displayName
		}
		if bio != nil {
			u.Bio = bio
		}
		if avatar != nil {
			u.AvatarURL = avatar
		}
		u.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("user_id", string(id.UserID)))
	return updated.Profile(), nil
}

// Logout revokes the given bearer token for the rest of its lifetime
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.credentials.Revoke(ctx, token); err != nil {
		return err
	}
	s.logger.Info("user logged out")
	return nil
}

// DeleteAccount removes the caller's account. It is refused while the user owns
// a pod or appears in a game; otherwise their decks go with them and they are
// removed from every pod they belong to.
func (s *Service) DeleteAccount(ctx context.Context, id model.Identity) error {
	if _, err := s.storage.GetUser(ctx, id.UserID); err != nil {
		return err
	}

	owned, err := s.storage.FindPods(ctx, storage.PodFilter{OwnerID: id.UserID})
	if err != nil {
		return fmt.Errorf("find owned pods: %w", err)
	}
	played, err := s.storage.FindGames(ctx, storage.GameFilter{PlayerID: id.UserID})
	if err != nil {
		return fmt.Errorf("find played games: %w", err)
	}
	if len(owned) > 0 || len(played) > 0 {
		return model.ErrUserHasDependents
	}

	if err := s.storage.DeleteUser(ctx, id.UserID); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("user_id", string(id.UserID)))
	return nil
}
