package middleware

import (
	"context"
	"net/http"
	"strings"

	domain "github.com/dkrysak/chemviz/internal/domain/users"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves an opaque token key to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*domain.User, error)
}

// TokenAuth validates the "Authorization: Token <opaque>" header against the
// token store and puts the authenticated user in the request context.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Token" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}
			key := strings.TrimSpace(parts[1])
			if key == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			u, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user set by TokenAuth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}
