package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

type contextKey struct{}

var userContextKey contextKey

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token to a user record and injects it into
// the request context. A bad token and an unknown user are indistinguishable
// to the caller: both produce the same 401.
func Authenticate(tokens *auth.TokenManager, users storage.UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			respond.Unauthorized(w, "Could not validate credentials")
			return
		}

		email, err := tokens.Verify(header[len(bearerPrefix):])
		if err != nil {
			respond.Unauthorized(w, "Could not validate credentials")
			return
		}

		user, err := users.FindByEmail(r.Context(), email)
		if err != nil {
			respond.Unauthorized(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user set by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
