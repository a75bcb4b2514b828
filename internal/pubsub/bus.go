// Package pubsub implements a small typed publish/subscribe bus.
//
// Delivery is fire-and-forget: Publish never blocks on subscribers, and each
// subscriber is invoked on its own goroutine. A closed subscription is never
// invoked again, even if a publish was already in flight when Close was
// called.
package pubsub

import "sync"

// Bus broadcasts values of type T to all active subscriptions.
type Bus[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscribe registers fn to be called for every published value until the
// returned subscription is closed. fn runs outside the publisher's goroutine
// and must not assume any particular execution context.
func (b *Bus[T]) Subscribe(fn func(T)) *Subscription[T] {
	s := &Subscription[T]{bus: b, fn: fn}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers v to every active subscription and returns immediately.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	targets := make([]*Subscription[T], 0, len(b.subs))
	for s := range b.subs {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		go s.deliver(v)
	}
}

// Subscription is one registered observer on a Bus.
type Subscription[T any] struct {
	bus *Bus[T]
	fn  func(T)

	mu     sync.Mutex
	closed bool
}

func (s *Subscription[T]) deliver(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.fn(v)
}

// Close detaches the subscription. It blocks until any in-flight delivery
// to this subscription has finished; after Close returns, the callback is
// guaranteed not to run again. Close is idempotent.
func (s *Subscription[T]) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
