package engine

import (
	"slices"
	"sync"

	"github.com/niello/deusexmachina-sub012/core"
)

// AnyStore is the type-erased view World uses for entity lifecycle
type AnyStore interface {
	RemoveEntity(e core.Entity)
	HasEntity(e core.Entity) bool
	CountEntities() int
	ClearAllComponents()
}

// Store keeps components of type T densely packed in insertion order
// Agents are processed in the order they were spawned, every tick
type Store[T any] struct {
	mu       sync.RWMutex
	index    map[core.Entity]int
	entities []core.Entity
	values   []T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index: make(map[core.Entity]int),
	}
}

// SetComponent inserts the component or overwrites the existing one in place
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[e]; ok {
		s.values[i] = val
		return
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	s.values = append(s.values, val)
}

func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[e]; ok {
		return s.values[i], true
	}
	var zero T
	return zero, false
}

// MutateComponent runs fn on the stored value under the write lock
// false if e has no component in this store
func (s *Store[T]) MutateComponent(e core.Entity, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[e]
	if !ok {
		return false
	}
	fn(&s.values[i])
	return true
}

// RemoveEntity drops e and shifts the tail down to keep spawn order
func (s *Store[T]) RemoveEntity(e core.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[e]
	if !ok {
		return
	}
	delete(s.index, e)
	s.entities = slices.Delete(s.entities, i, i+1)
	s.values = slices.Delete(s.values, i, i+1)
	for j := i; j < len(s.entities); j++ {
		s.index[s.entities[j]] = j
	}
}

func (s *Store[T]) HasEntity(e core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[e]
	return ok
}

// GetAllEntities returns a copy of the entity list, safe to hold across mutations
func (s *Store[T]) GetAllEntities() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entities)
}

func (s *Store[T]) CountEntities() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func (s *Store[T]) ClearAllComponents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.index)
	clear(s.values)
	s.entities = s.entities[:0]
	s.values = s.values[:0]
}
