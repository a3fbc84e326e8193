package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"coursefinder/internal/session"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const SessionContextKey = contextKey("session")

// SessionResolver maps a signed token to its session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// SessionMiddleware attaches the caller's session to the request context.
// The token comes from the session cookie or a Bearer header. Requests
// without a valid session continue anonymously.
func SessionMiddleware(resolver SessionResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					logger.Debug().Err(err).Msg("ignoring invalid session token")
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			http.Error(w, "Unauthorized: please log in", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFrom returns the session attached by SessionMiddleware.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionContextKey).(*session.Session)
	return sess, ok && sess != nil
}

// WithSession attaches sess to ctx.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, sess)
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
