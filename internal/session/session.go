// Package session keeps the signed-in user's backend credentials and
// search preferences on the server side.
package session

import (
	"errors"
	"time"

	"coursefinder/internal/model"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "cf_session"

var (
	// ErrSessionNotFound is returned for unknown, expired or deleted sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned when a session token fails validation.
	ErrInvalidToken = errors.New("invalid session token")
)

// Session is one signed-in browser.
type Session struct {
	ID           string     `json:"id"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	User         model.User `json:"user"`
	ZScore       *float64   `json:"z_score,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// New creates a session with a random id.
func New(tokens model.Tokens, user model.User, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// clone copies s including the Z-Score pointer.
func (s *Session) clone() *Session {
	c := *s
	if s.ZScore != nil {
		z := *s.ZScore
		c.ZScore = &z
	}
	return &c
}
