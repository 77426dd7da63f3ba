package containers

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// ObservableMap is a map that calls onChange whenever an existing entry is
// replaced by a different value or an entry is removed. Inserting a key that
// was not present is silent.
type ObservableMap[K constraints.Ordered, V comparable] struct {
	entries  map[K]V
	onChange func()
}

func NewObservableMap[K constraints.Ordered, V comparable](onChange func()) *ObservableMap[K, V] {
	return &ObservableMap[K, V]{
		entries:  make(map[K]V),
		onChange: onChange,
	}
}

// Put notifies before committing when key is present and value differs.
func (m *ObservableMap[K, V]) Put(key K, value V) {
	if current, ok := m.entries[key]; ok && current != value {
		m.notify()
	}
	m.entries[key] = value
}

// Remove always notifies, even when key is absent.
func (m *ObservableMap[K, V]) Remove(key K) {
	m.notify()
	delete(m.entries, key)
}

// PutAll is a sequence of Put calls in key order.
func (m *ObservableMap[K, V]) PutAll(other *ObservableMap[K, V]) {
	if other == nil {
		return
	}
	for _, k := range other.Keys() {
		m.Put(k, other.entries[k])
	}
}

func (m *ObservableMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *ObservableMap[K, V]) Has(key K) bool {
	_, ok := m.entries[key]
	return ok
}

func (m *ObservableMap[K, V]) Len() int {
	return len(m.entries)
}

// Keys returns the keys in ascending order.
func (m *ObservableMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Range visits entries in key order until fn returns false.
func (m *ObservableMap[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.Keys() {
		if !fn(k, m.entries[k]) {
			return
		}
	}
}

// Snapshot copies the entries into a plain map.
func (m *ObservableMap[K, V]) Snapshot() map[K]V {
	out := make(map[K]V, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Clone copies the entries into a new map observed by onChange. Filling the
// clone does not notify.
func (m *ObservableMap[K, V]) Clone(onChange func()) *ObservableMap[K, V] {
	out := NewObservableMap[K, V](onChange)
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}

func (m *ObservableMap[K, V]) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}
