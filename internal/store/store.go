// Package store holds the last-known-good snapshot of one entity
// collection and makes it synchronously readable. Stores never perform
// I/O themselves; the coordinator and the gateway subscription bridge
// push complete snapshots into them.
package store

import "sync"

// Store keeps a full replacement snapshot of one collection. There is
// no merge path: every update overwrites the whole snapshot, so the
// contents can never drift from server truth after concurrent edits.
type Store[T any] struct {
	mu      sync.RWMutex
	items   []T
	nextID  int
	changed map[int]func([]T)
}

func New[T any]() *Store[T] {
	return &Store[T]{changed: make(map[int]func([]T))}
}

// Current returns a copy of the snapshot. Never blocks on I/O, never
// returns an error; an empty store yields an empty slice.
func (s *Store[T]) Current() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the snapshot size without copying.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ReplaceAll unconditionally overwrites the snapshot and notifies
// subscribers with a copy. Callbacks run on the calling goroutine,
// after the swap is visible.
func (s *Store[T]) ReplaceAll(items []T) {
	snapshot := make([]T, len(items))
	copy(snapshot, items)

	s.mu.Lock()
	s.items = snapshot
	subs := make([]func([]T), 0, len(s.changed))
	for _, fn := range s.changed {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(s.Current())
	}
}

// Subscription is an explicit handle for a change listener. Close it on
// teardown; never rely on garbage collection to drop the callback.
type Subscription struct {
	close func()
	once  sync.Once
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.close)
}

// OnChange registers fn to run after every ReplaceAll.
func (s *Store[T]) OnChange(fn func([]T)) *Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.changed[id] = fn
	s.mu.Unlock()

	return &Subscription{close: func() {
		s.mu.Lock()
		delete(s.changed, id)
		s.mu.Unlock()
	}}
}
