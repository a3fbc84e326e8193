package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursefinder/internal/backend"
	"coursefinder/internal/model"
	"coursefinder/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newAuthService(b AuthBackend, clientID string) (*authService, *session.Manager) {
	mgr := session.NewManager(session.NewMemoryStore(), "secret", time.Hour)
	return NewAuthService(b, mgr, clientID, zerolog.Nop()).(*authService), mgr
}

func TestLoginCreatesSession(t *testing.T) {
	b := &fakeAuthBackend{loginResult: &backend.AuthResult{
		Tokens: model.Tokens{AccessToken: "acc"},
		User:   model.User{ID: 3, Email: "n@x.lk"},
	}}
	svc, mgr := newAuthService(b, "")
	ctx := context.Background()

	sess, token, err := svc.Login(ctx, "n@x.lk", "pw")
	require.NoError(t, err)
	assert.Equal(t, "acc", sess.AccessToken)

	resolved, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, resolved.ID)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	_, err = mgr.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc, _ := newAuthService(&fakeAuthBackend{}, "")
	_, _, err := svc.Login(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrMissingLogin)
}

func TestLoginPassesBackendError(t *testing.T) {
	herr := &backend.HTTPError{StatusCode: 400, Body: []byte(`{"message":"Invalid credentials"}`)}
	svc, _ := newAuthService(&fakeAuthBackend{loginErr: herr}, "")
	_, _, err := svc.Login(context.Background(), "a@b.c", "pw")
	var got *backend.HTTPError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "Invalid credentials", got.Message())
}

func TestRegister(t *testing.T) {
	base := RegisterForm{FirstName: "Amaya", LastName: "Perera", Email: "a@x.lk", Password: "pw", ConfirmPassword: "pw"}

	t.Run("mismatch", func(t *testing.T) {
		b := &fakeAuthBackend{}
		svc, _ := newAuthService(b, "")
		f := base
		f.ConfirmPassword = "other"
		_, err := svc.Register(context.Background(), f)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Empty(t, b.registered)
	})

	t.Run("missing field", func(t *testing.T) {
		svc, _ := newAuthService(&fakeAuthBackend{}, "")
		f := base
		f.LastName = " "
		_, err := svc.Register(context.Background(), f)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("default user type", func(t *testing.T) {
		b := &fakeAuthBackend{}
		svc, _ := newAuthService(b, "")
		msg, err := svc.Register(context.Background(), base)
		require.NoError(t, err)
		assert.Equal(t, "Registration successful", msg)
		require.Len(t, b.registered, 1)
		assert.Equal(t, DefaultUserType, b.registered[0].UserType)
	})
}

func TestGoogleSignInValidatesAudience(t *testing.T) {
	b := &fakeAuthBackend{loginResult: &backend.AuthResult{Tokens: model.Tokens{AccessToken: "g"}}}
	svc, _ := newAuthService(b, "client-123")

	var audience string
	svc.validateID = func(ctx context.Context, tok, aud string) (*idtoken.Payload, error) {
		audience = aud
		if tok == "bad" {
			return nil, errors.New("signature mismatch")
		}
		return &idtoken.Payload{Audience: aud}, nil
	}

	_, _, err := svc.GoogleSignIn(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
	assert.Empty(t, b.firebase)

	sess, _, err := svc.GoogleSignIn(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "client-123", audience)
	assert.Equal(t, "g", sess.AccessToken)
	assert.Equal(t, []string{"good"}, b.firebase)
}

func TestGoogleSignInWithoutClientIDForwards(t *testing.T) {
	b := &fakeAuthBackend{loginResult: &backend.AuthResult{Tokens: model.Tokens{AccessToken: "g"}}}
	svc, _ := newAuthService(b, "")
	svc.validateID = func(context.Context, string, string) (*idtoken.Payload, error) {
		t.Fatal("validator must not be called")
		return nil, nil
	}

	_, _, err := svc.GoogleSignIn(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok"}, b.firebase)
}

func TestProfileUsesSessionToken(t *testing.T) {
	b := &fakeAuthBackend{profile: &model.StudentProfile{FirstName: "Sahan"}}
	svc, _ := newAuthService(b, "")

	_, err := svc.Profile(context.Background(), nil)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)

	p, err := svc.Profile(context.Background(), &session.Session{AccessToken: "acc"})
	require.NoError(t, err)
	assert.Equal(t, "Sahan", p.FirstName)
	assert.Equal(t, "acc", b.tokenSeen)
}
