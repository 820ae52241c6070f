package store

import (
	"sync"
	"sync/atomic"

	"github.com/grovetools/treestate/draft"
	"github.com/grovetools/treestate/errors"
	"github.com/sirupsen/logrus"
)

// Store owns one snapshot of type T and the subscribers interested in it.
// It is safe for concurrent use. Edit functions must not call Update or
// UpdateAt on the store they are editing; subscribers may.
type Store[T any] struct {
	name   string
	logger *logrus.Entry
	debug  atomic.Bool

	// editMu serializes edits so each one drafts from the latest commit.
	editMu sync.Mutex

	mu        sync.RWMutex
	state     T
	version   uint64
	listeners []*listener[T]
	nextID    uint64

	notifyMu  sync.Mutex
	notifying bool
	pending   []T
}

// New creates a store holding initial.
func New[T any](initial T, opts ...Option) *Store[T] {
	cfg := newSettings(opts)
	s := &Store[T]{
		name:   cfg.name,
		logger: cfg.logger.WithField("store", cfg.name),
		state:  initial,
	}
	s.debug.Store(cfg.debug)
	return s
}

// Name returns the label given with WithName.
func (s *Store[T]) Name() string {
	return s.name
}

// GetState returns the current snapshot. Callers must treat it as read-only.
func (s *Store[T]) GetState() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version counts the updates committed so far.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Listeners returns the number of live subscriptions.
func (s *Store[T]) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// SetDebug toggles tracing at run time.
func (s *Store[T]) SetDebug(enabled bool) {
	s.debug.Store(enabled)
}

// Debug reports whether tracing is on.
func (s *Store[T]) Debug() bool {
	return s.debug.Load()
}

// Update runs fn against a draft of the current snapshot and commits the
// result. An error from fn is returned as EDIT_FAILED and leaves the store
// untouched. Panics in fn propagate to the caller, also without a commit.
func (s *Store[T]) Update(fn func(draft *T) error) error {
	s.trace("Update with edit function", nil)
	return s.commit(func(cur T) (T, bool, error) {
		return draft.Apply(cur, func(d *T) error {
			if err := fn(d); err != nil {
				return errors.EditFailed(s.name, err)
			}
			return nil
		})
	})
}

// UpdateAt is Update with the draft scoped to the top-level entry key of
// the snapshot: a struct field (by Go name or `state` tag) or a map entry.
// Every other entry of the new snapshot is the old snapshot's own value.
func UpdateAt[T, F any](s *Store[T], key string, fn func(draft *F) error) error {
	s.trace("Update partial with edit function", logrus.Fields{"key": key})
	return s.commit(func(cur T) (T, bool, error) {
		return draft.ApplyKey(cur, key, func(d *F) error {
			if err := fn(d); err != nil {
				return errors.EditFailed(s.name, err).WithDetail("key", key)
			}
			return nil
		})
	})
}

// Subscribe registers cb for every future committed update. Each call
// yields an independent registration, even for the same function.
func (s *Store[T]) Subscribe(cb func(state T)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	l := &listener[T]{id: s.nextID, fn: cb}
	l.active.Store(true)

	// Newest first.
	s.listeners = append([]*listener[T]{l}, s.listeners...)

	return &Subscription{
		id:     l.id,
		cancel: func() { s.remove(l) },
	}
}

func (s *Store[T]) remove(l *listener[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.active.Store(false)
	for i, cur := range s.listeners {
		if cur == l {
			next := make([]*listener[T], 0, len(s.listeners)-1)
			next = append(next, s.listeners[:i]...)
			s.listeners = append(next, s.listeners[i+1:]...)
			return
		}
	}
}

// commit applies edit to the latest snapshot and, on success, queues the
// result for notification. The caller that finds no round in progress
// drains the queue.
func (s *Store[T]) commit(edit func(cur T) (T, bool, error)) error {
	drain, err := s.apply(edit)
	if err != nil {
		return err
	}
	if drain {
		s.drain()
	}
	return nil
}

func (s *Store[T]) apply(edit func(cur T) (T, bool, error)) (bool, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	next, changed, err := edit(s.GetState())
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.state = next
	s.version++
	s.mu.Unlock()

	if !changed {
		s.trace("Edit produced no changes, keeping snapshot", nil)
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.pending = append(s.pending, next)
	if s.notifying {
		return false, nil
	}
	s.notifying = true
	return true, nil
}

// drain delivers queued snapshots in commit order until the queue is empty.
// A panicking subscriber abandons the round: the queue is cleared so later
// updates start a fresh one.
func (s *Store[T]) drain() {
	finished := false
	defer func() {
		if finished {
			return
		}
		s.notifyMu.Lock()
		s.notifying = false
		s.pending = nil
		s.notifyMu.Unlock()
	}()

	for {
		s.notifyMu.Lock()
		if len(s.pending) == 0 {
			s.notifying = false
			finished = true
			s.notifyMu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.notifyMu.Unlock()

		s.emit(next)
	}
}

func (s *Store[T]) emit(snapshot T) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	s.trace("Emit data", logrus.Fields{"listeners": len(listeners), "state": snapshot})

	for _, l := range listeners {
		// Skip registrations removed earlier in this round.
		if !l.active.Load() {
			continue
		}
		l.fn(snapshot)
	}
}

func (s *Store[T]) trace(msg string, fields logrus.Fields) {
	if !s.debug.Load() {
		return
	}
	s.logger.WithFields(fields).Info(msg)
}
