package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"coursefinder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	s := New(model.Tokens{AccessToken: "a"}, model.User{ID: 1}, time.Hour, now)
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)

	now = now.Add(2 * time.Hour)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := New(model.Tokens{}, model.User{}, time.Hour, time.Now())
	z := 1.2
	s.ZScore = &z
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	*got.ZScore = 2.5

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.2, *again.ZScore)
}

func TestMemoryStoreRunStopsWithContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)
	ctx := context.Background()

	s, token, err := m.Create(ctx, model.Tokens{AccessToken: "acc"}, model.User{ID: 9, Email: "k@x.lk"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	got, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "acc", got.AccessToken)

	z := 1.75
	got.ZScore = &z
	require.NoError(t, m.Update(ctx, got))
	got, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1.75, *got.ZScore)

	require.NoError(t, m.Destroy(ctx, s.ID))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRejectsTamperedToken(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)
	ctx := context.Background()
	_, token, err := m.Create(ctx, model.Tokens{}, model.User{})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Resolve(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager(NewMemoryStore(), "different", time.Hour)
	_, err = other.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerUpdateUnknownSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)
	err := m.Update(context.Background(), &Session{ID: "nope", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerUpdateDoesNotReviveDestroyedSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, "secret", time.Hour)
	ctx := context.Background()

	s, token, err := m.Create(ctx, model.Tokens{AccessToken: "acc"}, model.User{ID: 3})
	require.NoError(t, err)
	held, err := m.Resolve(ctx, token)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(z float64) {
			defer wg.Done()
			held := held.clone()
			held.ZScore = &z
			_ = m.Update(ctx, held)
		}(float64(i) / 10)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Destroy(ctx, s.ID)
	}()
	wg.Wait()

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, m.Update(ctx, held), ErrSessionNotFound)
}
