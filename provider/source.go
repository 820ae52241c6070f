package provider

import (
	"github.com/grovetools/treestate/store"
)

// Source is what a Provider mirrors: a current value plus change
// notifications. Implementations must be comparable so SetSource can tell
// whether the source actually changed.
type Source interface {
	State() any
	// Watch registers onChange and returns a function that releases it.
	Watch(onChange func()) (release func())
}

type storeSource[T any] struct {
	s *store.Store[T]
}

// From adapts a store to Source. Adapters of the same store compare equal.
func From[T any](s *store.Store[T]) Source {
	return storeSource[T]{s: s}
}

func (src storeSource[T]) State() any {
	return src.s.GetState()
}

func (src storeSource[T]) Watch(onChange func()) func() {
	sub := src.s.Subscribe(func(T) { onChange() })
	return sub.Unsubscribe
}

func (src storeSource[T]) String() string {
	return src.s.Name()
}
