// Package watch turns one-shot queries into continuously-updated sequences.
// A Hub fans out change signals to subscribers; Observe pairs a subscription
// with a fetch function so callers receive a fresh snapshot after every
// write instead of polling.
package watch

import (
	"context"
	"log/slog"
	"sync"
)

// Hub broadcasts data-change signals. Signals carry no payload and coalesce:
// a subscriber that hasn't drained its channel yet will see at most one
// pending signal, then re-query and pick up all intervening writes at once.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan struct{}]struct{})}
}

// Subscribe registers a signal channel that is removed and closed when ctx
// is cancelled.
func (h *Hub) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Notify signals every subscriber. Never blocks the writer: subscribers with
// a pending signal are skipped, the pending signal covers this change too.
func (h *Hub) Notify() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) subscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Observe emits an initial snapshot from fetch, then a fresh snapshot after
// every hub notification. The returned channel closes when ctx is cancelled.
// Fetch errors are logged and the previous snapshot stands; a broken store is
// a startup-level failure, not a per-update one.
func Observe[T any](ctx context.Context, h *Hub, fetch func(context.Context) (T, error)) <-chan T {
	signals := h.Subscribe(ctx)
	out := make(chan T, 1)

	go func() {
		defer close(out)

		emit := func() bool {
			snapshot, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("watch fetch failed", "error", err)
				}
				return true
			}
			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
