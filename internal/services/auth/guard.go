package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/podtracker/internal/model"
)

// Guard resolves request credentials to an identity
type Guard struct {
	credentials *Credentials
}

// NewGuard creates a guard backed by the given credentials
func NewGuard(credentials *Credentials) *Guard {
	return &Guard{credentials: credentials}
}

// Authenticate turns an Authorization header value (or a bare token) into the
// caller's identity. Any problem is reported as model.ErrUnauthenticated.
func (g *Guard) Authenticate(ctx context.Context, credential string) (model.Identity, error) {
	raw, err := ExtractToken(credential)
	if err != nil {
		return model.Identity{}, err
	}
	tok, err := g.credentials.VerifyToken(ctx, raw)
	if err != nil {
		return model.Identity{}, err
	}
	return model.Identity{UserID: tok.UserID}, nil
}

// ExtractToken returns the token from "Bearer <token>" or a bare token
func ExtractToken(credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", fmt.Errorf("%w: missing credential", model.ErrUnauthenticated)
	}
	scheme, token, found := strings.Cut(credential, " ")
	if !found {
		return credential, nil
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: unsupported authorization scheme", model.ErrUnauthenticated)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: missing token", model.ErrUnauthenticated)
	}
	return token, nil
}
