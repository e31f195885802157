package realtime

import (
	"context"
	"sync"
)

// Subscription is a cancellable stream of decoded events. Events is closed
// after Unsubscribe or when the context the subscription was opened with
// ends. Unsubscribe is idempotent and safe for concurrent use.
type Subscription[T any] struct {
	events chan T
	done   chan struct{}
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func newSubscription[T any](cancel context.CancelFunc, buffer int) *Subscription[T] {
	return &Subscription[T]{
		events: make(chan T, buffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (s *Subscription[T]) Events() <-chan T { return s.events }

func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)

		s.mu.Lock()
		s.closed = true
		close(s.events)
		s.mu.Unlock()
	})
}

// deliver blocks until the event is taken or the subscription ends.
func (s *Subscription[T]) deliver(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- v:
		return true
	case <-s.done:
		return false
	}
}
