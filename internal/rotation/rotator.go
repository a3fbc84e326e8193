// Package rotation drives the media carousel shown on a course card.
package rotation

import (
	"context"
	"sync"
	"time"

	"coursefinder/internal/model"
)

// DefaultInterval is how long each image stays on screen.
const DefaultInterval = 3 * time.Second

// Rotator owns the display cursor over one course's media. The underlying
// sequence is never reordered. A Rotator belongs to a single display; Run
// must be cancelled when that display goes away.
type Rotator struct {
	mu     sync.Mutex
	items  []model.MediaItem
	cursor int
	nudge  chan struct{}
}

func New(items []model.MediaItem) *Rotator {
	cp := make([]model.MediaItem, len(items))
	copy(cp, items)
	return &Rotator{items: cp, nudge: make(chan struct{}, 1)}
}

func (r *Rotator) Len() int {
	return len(r.items)
}

func (r *Rotator) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Current returns the item under the cursor, or false for an empty sequence.
func (r *Rotator) Current() (model.MediaItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return model.MediaItem{}, false
	}
	return r.items[r.cursor], true
}

// Tick performs one timer step and reports whether the cursor moved.
// Sequences of 0 or 1 items never move. The timer never moves onto or
// away from an item that does not rotate (videos).
func (r *Rotator) Tick() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.items)
	if n <= 1 || !r.items[r.cursor].Kind.Rotates() {
		return r.cursor, false
	}
	next := (r.cursor + 1) % n
	if !r.items[next].Kind.Rotates() {
		return r.cursor, false
	}
	r.cursor = next
	return r.cursor, true
}

// Next moves forward one item regardless of kind and restarts the interval.
func (r *Rotator) Next() int {
	return r.step(1)
}

// Prev moves back one item regardless of kind and restarts the interval.
func (r *Rotator) Prev() int {
	return r.step(-1)
}

func (r *Rotator) step(delta int) int {
	r.mu.Lock()
	n := len(r.items)
	if n > 0 {
		r.cursor = ((r.cursor+delta)%n + n) % n
	}
	cur := r.cursor
	r.mu.Unlock()

	select {
	case r.nudge <- struct{}{}:
	default:
	}
	return cur
}

// Run ticks every interval until ctx is done and calls onChange after each
// move. Manual navigation restarts the interval. Run always returns ctx.Err().
func (r *Rotator) Run(ctx context.Context, interval time.Duration, onChange func(int, model.MediaItem)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if r.Len() <= 1 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.nudge:
			ticker.Reset(interval)
		case <-ticker.C:
			idx, moved := r.Tick()
			if moved && onChange != nil {
				r.mu.Lock()
				item := r.items[idx]
				r.mu.Unlock()
				onChange(idx, item)
			}
		}
	}
}
