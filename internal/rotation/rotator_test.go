package rotation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coursefinder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func images(n int) []model.MediaItem {
	out := make([]model.MediaItem, n)
	for i := range out {
		out[i] = model.MediaItem{ID: int64(i + 1), Type: "jpg", Kind: model.MediaImage}
	}
	return out
}

func TestTickWrapsAround(t *testing.T) {
	r := New(images(3))

	start := r.Cursor()
	var seen []int
	for i := 0; i < 3; i++ {
		idx, moved := r.Tick()
		assert.True(t, moved)
		seen = append(seen, idx)
	}
	assert.Equal(t, []int{1, 2, 0}, seen)
	assert.Equal(t, start, r.Cursor())
}

func TestTickNeverMovesSingleOrEmpty(t *testing.T) {
	for _, n := range []int{0, 1} {
		r := New(images(n))
		for i := 0; i < 10; i++ {
			idx, moved := r.Tick()
			assert.False(t, moved)
			assert.Equal(t, 0, idx)
		}
	}
}

func TestTickSkipsVideo(t *testing.T) {
	items := images(3)
	items[1] = model.MediaItem{ID: 9, Type: "mp4", Kind: model.MediaVideo}
	r := New(items)

	idx, moved := r.Tick()
	assert.False(t, moved, "advance onto a video is skipped")
	assert.Equal(t, 0, idx)

	// Explicit navigation can land on the video; the timer leaves it there.
	assert.Equal(t, 1, r.Next())
	idx, moved = r.Tick()
	assert.False(t, moved)
	assert.Equal(t, 1, idx)

	assert.Equal(t, 2, r.Next())
	idx, moved = r.Tick()
	assert.True(t, moved)
	assert.Equal(t, 0, idx)
}

func TestManualNavigationWraps(t *testing.T) {
	r := New(images(3))
	assert.Equal(t, 2, r.Prev())
	assert.Equal(t, 0, r.Next())
	assert.Equal(t, 1, r.Next())

	empty := New(nil)
	assert.Equal(t, 0, empty.Next())
	assert.Equal(t, 0, empty.Prev())
}

func TestNewCopiesItems(t *testing.T) {
	items := images(2)
	r := New(items)
	items[0].ID = 42

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), cur.ID)

	_, ok = New(nil).Current()
	assert.False(t, ok)
}

func TestRunAdvancesUntilCancelled(t *testing.T) {
	r := New(images(3))
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var got []int
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, 5*time.Millisecond, func(idx int, _ model.MediaItem) {
			mu.Lock()
			got = append(got, idx)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 3
	}, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 0}, got[:3])
}

func TestRunWithSingleItemWaitsForCancel(t *testing.T) {
	r := New(images(1))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := r.Run(ctx, time.Millisecond, func(int, model.MediaItem) { calls++ })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, calls)
	assert.Equal(t, 0, r.Cursor())
}

func TestCarouselReachesEveryImagePastVideos(t *testing.T) {
	img := func(id int64) model.MediaItem { return model.MediaItem{ID: id, Type: "png", Kind: model.MediaImage} }
	video := model.MediaItem{ID: 9, Type: "mp4", Kind: model.MediaVideo}

	tests := []struct {
		name  string
		media []model.MediaItem
	}{
		{"video between images", []model.MediaItem{img(1), video, img(2)}},
		{"video first", []model.MediaItem{video, img(1), img(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(model.Course{Media: tt.media}.CarouselMedia())
			shown := map[int64]bool{}
			cur, ok := r.Current()
			require.True(t, ok)
			shown[cur.ID] = true
			for i := 0; i < 4; i++ {
				r.Tick()
				cur, _ = r.Current()
				shown[cur.ID] = true
			}
			assert.Equal(t, map[int64]bool{1: true, 2: true}, shown)
		})
	}
}
