// Package broadcast implements a "latest value" fan-out. Every subscriber
// sees the value current at subscription time followed by later values;
// a slow subscriber skips intermediate values and only ever sees the latest.
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Value holds a value of type T and broadcasts every Store to subscribers.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[string]*subscriber[T]
	closed  bool
}

// subscriber pairs a delivery channel with a done signal for the goroutine
// that watches the subscription context.
type subscriber[T any] struct {
	ch   chan T
	done chan struct{}
}

func (s *subscriber[T]) stop() {
	close(s.ch)
	close(s.done)
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[string]*subscriber[T]),
	}
}

// Load returns the current value.
func (v *Value[T]) Load() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Store replaces the current value and publishes it. It never blocks on
// subscribers: an unread older value in a subscriber channel is replaced.
func (v *Value[T]) Store(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = val
	if v.closed {
		return
	}
	for _, sub := range v.subs {
		deliver(sub.ch, val)
	}
}

// deliver must run under the write lock so that no other sender races the
// drain; receivers only ever free space.
func deliver[T any](ch chan T, val T) {
	select {
	case <-ch:
	default:
	}
	ch <- val
}

// Subscribe registers a subscriber. The returned channel immediately holds
// the current value and is closed when ctx is done, on Unsubscribe or on
// Close.
func (v *Value[T]) Subscribe(ctx context.Context) (<-chan T, string) {
	id := uuid.NewString()
	ch := make(chan T, 1)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, id
	}
	sub := &subscriber[T]{ch: ch, done: make(chan struct{})}
	v.subs[id] = sub
	ch <- v.current
	v.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			v.Unsubscribe(id)
		case <-sub.done:
		}
	}()

	return ch, id
}

// Unsubscribe removes a subscription and closes its channel.
func (v *Value[T]) Unsubscribe(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	sub, ok := v.subs[id]
	if !ok {
		return
	}
	delete(v.subs, id)
	sub.stop()
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// Close closes every subscriber channel. Later Stores still update the value.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for id, sub := range v.subs {
		sub.stop()
		delete(v.subs, id)
	}
	v.closed = true
}
