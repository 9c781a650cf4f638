package status

import (
	"slices"
	"sync"
)

// MetricMap lazily creates one cell of type T per key
// Cells never move, so callers may keep the returned pointer forever
type MetricMap[T any] struct {
	cells sync.Map
	mu    sync.Mutex
	keys  []string
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the cell for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if v, ok := m.cells.Load(key); ok {
		return v.(*T)
	}
	v, loaded := m.cells.LoadOrStore(key, new(T))
	if !loaded {
		m.mu.Lock()
		i, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, i, key)
		m.mu.Unlock()
	}
	return v.(*T)
}

// Lookup returns the cell for key without creating it
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	v, ok := m.cells.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// Range visits cells in key order
func (m *MetricMap[T]) Range(fn func(key string, cell *T)) {
	m.mu.Lock()
	keys := slices.Clone(m.keys)
	m.mu.Unlock()
	for _, k := range keys {
		if v, ok := m.cells.Load(k); ok {
			fn(k, v.(*T))
		}
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
