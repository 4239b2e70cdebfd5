package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscribeReceivesNotify(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := h.Subscribe(ctx)
	h.Notify()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}
}

func TestNotifyCoalescesWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := h.Subscribe(ctx)
	for i := 0; i < 10; i++ {
		h.Notify()
	}

	<-ch
	select {
	case <-ch:
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestNotifyNeverBlocksWriter(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = h.Subscribe(ctx) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Notify()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a slow subscriber")
	}
}

func TestSubscribeCancelRemovesSubscriber(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := h.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return h.subscriberCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")
}

func TestObserveEmitsInitialSnapshot(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var counter atomic.Int64
	ch := Observe(ctx, h, func(context.Context) (int64, error) {
		return counter.Load(), nil
	})

	select {
	case v := <-ch:
		assert.EqualValues(t, 0, v)
	case <-time.After(time.Second):
		t.Fatal("expected initial snapshot")
	}
}

func TestObserveEmitsAfterNotify(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var counter atomic.Int64
	ch := Observe(ctx, h, func(context.Context) (int64, error) {
		return counter.Load(), nil
	})

	<-ch // initial

	counter.Store(7)
	h.Notify()

	select {
	case v := <-ch:
		assert.EqualValues(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("expected snapshot after notify")
	}
}

func TestObserveClosesOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := Observe(ctx, h, func(context.Context) (int, error) { return 1, nil })
	<-ch

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
