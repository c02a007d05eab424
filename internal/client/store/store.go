// Package store provides the keyed cache primitive the sync engine builds
// on: a mutable map of view values with snapshot/restore, staleness
// marking, and change notification for UI subscribers.
package store

import "sync"

type entry[V any] struct {
	value V
	stale bool
}

// Store holds one value per key. Writers are serialized by the mutex;
// readers may subscribe and get notified with the key that changed.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]

	subMu sync.Mutex
	subs  map[int]func(K)
	nextS int
}

func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]entry[V]),
		subs:    make(map[int]func(K)),
	}
}

// Get returns the current value for key and whether one is present.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.value, ok
}

// Set publishes a fresh value for key and notifies subscribers.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value}
	s.mu.Unlock()

	s.notify(key)
}

// Update applies fn to the current value (zero value if absent) and
// publishes the result. The entry keeps its staleness flag: an optimistic
// rewrite of a stale view does not make it authoritative.
func (s *Store[K, V]) Update(key K, fn func(V) V) {
	s.mu.Lock()
	e := s.entries[key]
	e.value = fn(e.value)
	s.entries[key] = e
	s.mu.Unlock()

	s.notify(key)
}

// Delete removes the entry for key.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.notify(key)
}

// MarkStale flags the entry so readers know a refetch is pending. Absent
// keys are ignored.
func (s *Store[K, V]) MarkStale(key K) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		e.stale = true
		s.entries[key] = e
	}
	s.mu.Unlock()

	if ok {
		s.notify(key)
	}
}

// IsStale reports whether the entry exists and is flagged stale.
func (s *Store[K, V]) IsStale(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entries[key].stale
}

// Snapshot captures the exact state of the given keys, including absence,
// and returns a closure that restores it. Each mutation takes its own
// snapshot at call time, so rollbacks are self-contained.
func (s *Store[K, V]) Snapshot(keys ...K) func() {
	s.mu.RLock()
	saved := make(map[K]entry[V], len(keys))
	present := make(map[K]bool, len(keys))
	for _, k := range keys {
		e, ok := s.entries[k]
		saved[k] = e
		present[k] = ok
	}
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		for _, k := range keys {
			if present[k] {
				s.entries[k] = saved[k]
			} else {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()

		for _, k := range keys {
			s.notify(k)
		}
	}
}

// Subscribe registers fn to run after every publish. It returns an
// unsubscribe func. Callbacks run on the mutating goroutine; keep them
// cheap.
func (s *Store[K, V]) Subscribe(fn func(K)) func() {
	s.subMu.Lock()
	id := s.nextS
	s.nextS++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store[K, V]) notify(key K) {
	s.subMu.Lock()
	fns := make([]func(K), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}
