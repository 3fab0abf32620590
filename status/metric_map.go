package status

import (
	"slices"
	"sync"
)

// MetricMap holds metrics of one kind keyed by name
// Lookups allocate once per key; writers then update the returned pointer without the lock
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	keys  []string // sorted, kept in step with items
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr := m.items[key]
	m.mu.RUnlock()
	if ptr != nil {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr = m.items[key]; ptr == nil {
		ptr = new(T)
		m.items[key] = ptr
		i, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, i, key)
	}
	return ptr
}

// Has reports whether key was ever looked up
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key] != nil
}

// Range visits metrics in key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.keys {
		fn(k, m.items[k])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
