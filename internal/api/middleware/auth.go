package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/podtracker/internal/api/apierr"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/auth"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// Auth creates authentication middleware. Requests without a valid bearer
// token are rejected before reaching the handler.
func Auth(guard *auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := guard.Authenticate(r.Context(), header)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			token, _ := auth.ExtractToken(header)

			ctx := r.Context()
			ctx = context.WithValue(ctx, identityContextKey, identity)
			ctx = context.WithValue(ctx, tokenContextKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated caller from the request context
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

// MustGetIdentity returns the authenticated caller or panics
func MustGetIdentity(ctx context.Context) model.Identity {
	identity, ok := GetIdentity(ctx)
	if !ok {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}

// GetToken returns the bearer token the request was authenticated with
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
