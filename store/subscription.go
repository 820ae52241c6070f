package store

import "sync/atomic"

type listener[T any] struct {
	id     uint64
	fn     func(T)
	active atomic.Bool
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     uint64
	cancel func()
	done   atomic.Bool
}

// ID returns the subscription's identifier, unique within its store.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Unsubscribe removes the registration. Calling it again is a no-op.
func (s *Subscription) Unsubscribe() {
	if s.done.CompareAndSwap(false, true) {
		s.cancel()
	}
}
