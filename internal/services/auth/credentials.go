package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage/revocation"
)

// Config holds configuration for credentials
type Config struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// DefaultConfig returns default credential configuration. JWTSecret has no default.
func DefaultConfig() Config {
	return Config{
		Issuer:     "podtracker",
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Token is a verified or freshly issued bearer token
type Token struct {
	Value     string
	ID        string
	UserID    model.UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Credentials hashes passwords and issues, verifies and revokes bearer tokens.
// It never touches the entity store.
type Credentials struct {
	secret      []byte
	issuer      string
	ttl         time.Duration
	cost        int
	clock       clock.Clock
	revocations revocation.Store

	// dummyHash is compared against when no user exists so both paths cost the same
	dummyHash []byte
}

// NewCredentials creates a credential service
func NewCredentials(cfg Config, clk clock.Clock, revocations revocation.Store) (*Credentials, error) {
	defaults := DefaultConfig()
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaults.Issuer
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Credentials{
		secret:      []byte(cfg.JWTSecret),
		issuer:      cfg.Issuer,
		ttl:         cfg.TokenTTL,
		cost:        cfg.BcryptCost,
		clock:       clk,
		revocations: revocations,
		dummyHash:   dummy,
	}, nil
}

// Hash returns the bcrypt hash of a password
func (c *Credentials) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash
func (c *Credentials) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyNothing burns the same time as a failed Verify
func (c *Credentials) VerifyNothing(password string) {
	_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
}

// IssueToken signs a new bearer token for the user
func (c *Credentials) IssueToken(userID model.UserID) (*Token, error) {
	// Token timestamps carry whole seconds
	now := c.clock.Now().Truncate(time.Second)
	expires := now.Add(c.ttl)
	id := uuid.NewString()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Issuer:    c.issuer,
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		ID:        id,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// parse checks signature and claims without consulting revocations
func (c *Credentials) parse(raw string) (*Token, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing token", model.ErrUnauthenticated)
	}

	keyFunc := func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}
	var cl jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &cl, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", model.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: invalid token", model.ErrUnauthenticated)
	}
	if cl.Subject == "" || cl.ID == "" {
		return nil, fmt.Errorf("%w: incomplete token", model.ErrUnauthenticated)
	}

	tok := &Token{
		Value:     raw,
		ID:        cl.ID,
		UserID:    model.UserID(cl.Subject),
		ExpiresAt: cl.ExpiresAt.Time,
	}
	if cl.IssuedAt != nil {
		tok.IssuedAt = cl.IssuedAt.Time
	}
	return tok, nil
}

// VerifyToken validates a bearer token and checks it has not been revoked
func (c *Credentials) VerifyToken(ctx context.Context, raw string) (*Token, error) {
	tok, err := c.parse(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := c.revocations.IsRevoked(ctx, tok.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", model.ErrUnauthenticated)
	}
	return tok, nil
}

// Revoke invalidates a token for the rest of its lifetime
func (c *Credentials) Revoke(ctx context.Context, raw string) error {
	tok, err := c.parse(raw)
	if err != nil {
		return err
	}
	if err := c.revocations.Revoke(ctx, tok.ID, tok.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
