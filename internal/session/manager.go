package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursefinder/internal/model"
	"coursefinder/internal/util"
)

// Manager creates sessions and maps signed cookie tokens back to them.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of newly created sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for the given backend credentials and returns
// it with its signed token.
func (m *Manager) Create(ctx context.Context, tokens model.Tokens, user model.User) (*Session, string, error) {
	now := m.now()
	s := New(tokens, user, m.ttl, now)
	token, err := util.SignJWT(s.ID, user.Email, m.secret, m.ttl, now)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	return s, token, nil
}

// Resolve validates token and loads its session.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := util.ValidateJWT(token, m.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return m.store.Get(ctx, claims.Subject)
}

// Update persists changes made to an existing session. A session that was
// destroyed or expired meanwhile stays gone.
func (m *Manager) Update(ctx context.Context, s *Session) error {
	return m.store.Update(ctx, s)
}

// Destroy deletes the session. Deleting an unknown session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}
