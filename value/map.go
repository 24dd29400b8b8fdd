package value

import (
	"iter"
)

// Map is an insertion-ordered map with keys of any type. Setting an existing
// key replaces its value in place.
type Map struct {
	keys  []any
	vals  []any
	index map[any]int
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key, Value any
}

// NewMap creates a map from entries, later entries win on equal keys.
func NewMap(entries ...Entry) *Map {
	m := &Map{index: make(map[any]int, len(entries))}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

// Set stores v under k.
func (m *Map) Set(k, v any) {
	if m.index == nil {
		m.index = make(map[any]int)
	}

	key := KeyOf(k)
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}

	m.index[key] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under k.
func (m *Map) Get(k any) (any, bool) {
	i, ok := m.index[KeyOf(k)]
	if !ok {
		return nil, false
	}

	return m.vals[i], true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	return append([]any(nil), m.keys...)
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.keys))
	for i := range m.keys {
		out[i] = Entry{Key: m.keys[i], Value: m.vals[i]}
	}

	return out
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for i := range m.keys {
			if !yield(m.keys[i], m.vals[i]) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold equal keys mapped to equal values,
// order ignored. Values are compared by KeyOf.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}

	for key, i := range m.index {
		j, ok := other.index[key]
		if !ok || KeyOf(m.vals[i]) != KeyOf(other.vals[j]) {
			return false
		}
	}

	return true
}
