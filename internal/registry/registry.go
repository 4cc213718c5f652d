// Package registry keeps in-process values keyed by id with exclusive per-key access.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNotFound is returned when no value is registered under the id.
var ErrNotFound = errors.New("registry: not found")

// ErrExists is returned by Create when the id is already taken.
var ErrExists = errors.New("registry: id already registered")

type slot[T any] struct {
	mu      sync.Mutex
	value   T
	evicted bool
}

// Registry holds one slot per id. Mutations on the same id are serialized;
// different ids never contend beyond the brief map lookup.
type Registry[T any] struct {
	mu    sync.RWMutex
	slots map[string]*slot[T]
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{slots: make(map[string]*slot[T])}
}

// Create registers value under id.
func (r *Registry[T]) Create(id string, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; ok {
		return ErrExists
	}
	r.slots[id] = &slot[T]{value: value}
	return nil
}

func (r *Registry[T]) lookup(id string) (*slot[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	return s, ok
}

// Update runs fn with exclusive access to the value under id. fn mutates the
// value in place through the pointer; an error from fn is returned unchanged.
func (r *Registry[T]) Update(id string, fn func(*T) error) error {
	s, ok := r.lookup(id)
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return ErrNotFound
	}
	return fn(&s.value)
}

// View runs fn with exclusive access to the value under id. fn must not retain v.
func (r *Registry[T]) View(id string, fn func(v *T)) error {
	return r.Update(id, func(v *T) error {
		fn(v)
		return nil
	})
}

// Range calls fn for every value until fn returns false. Each value is locked
// while fn runs.
func (r *Registry[T]) Range(fn func(id string, v *T) bool) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.slots))
	slots := make([]*slot[T], 0, len(r.slots))
	for id, s := range r.slots {
		ids = append(ids, id)
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	for i, s := range slots {
		s.mu.Lock()
		if s.evicted {
			s.mu.Unlock()
			continue
		}
		more := fn(ids[i], &s.value)
		s.mu.Unlock()
		if !more {
			return
		}
	}
}

// Len returns the number of registered values.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Delete removes id. It waits for an in-flight Update on the same id.
func (r *Registry[T]) Delete(id string) {
	r.mu.Lock()
	s, ok := r.slots[id]
	if ok {
		delete(r.slots, id)
	}
	r.mu.Unlock()
	if ok {
		s.mu.Lock()
		s.evicted = true
		s.mu.Unlock()
	}
}

// SweepFunc inspects a value during a sweep and reports whether to keep it.
// It may mutate the value.
type SweepFunc[T any] func(id string, v *T, now time.Time) (keep bool)

// Sweep applies fn to every value and evicts those fn rejects. It returns the
// number of evicted values. A value locked by an in-flight Update is in use
// and is skipped until the next sweep.
func (r *Registry[T]) Sweep(now time.Time, fn SweepFunc[T]) int {
	r.mu.RLock()
	ids := make([]string, 0, len(r.slots))
	slots := make([]*slot[T], 0, len(r.slots))
	for id, s := range r.slots {
		ids = append(ids, id)
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	evicted := 0
	for i, s := range slots {
		if !s.mu.TryLock() {
			continue
		}
		if s.evicted || fn(ids[i], &s.value, now) {
			s.mu.Unlock()
			continue
		}
		s.evicted = true
		s.mu.Unlock()

		r.mu.Lock()
		if r.slots[ids[i]] == s {
			delete(r.slots, ids[i])
		}
		r.mu.Unlock()
		evicted++
	}
	return evicted
}

// RunJanitor sweeps every interval until ctx is done.
func (r *Registry[T]) RunJanitor(ctx context.Context, interval time.Duration, fn SweepFunc[T]) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now, fn); n > 0 {
				slog.Info("registry sweep evicted entries", "evicted", n, "remaining", r.Len())
			}
		}
	}
}
