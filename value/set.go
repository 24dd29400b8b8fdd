package value

import (
	"iter"
)

// Set is an insertion-ordered set. Adding a member whose key is already
// present is absorbed silently.
type Set struct {
	items []any
	index map[any]int
}

// NewSet creates a set holding items in order, duplicates collapsed.
func NewSet(items ...any) *Set {
	s := &Set{index: make(map[any]int, len(items))}
	for _, item := range items {
		s.Add(item)
	}

	return s
}

// Add inserts v and reports whether it was not present before.
func (s *Set) Add(v any) bool {
	if s.index == nil {
		s.index = make(map[any]int)
	}

	key := KeyOf(v)
	if _, ok := s.index[key]; ok {
		return false
	}

	s.index[key] = len(s.items)
	s.items = append(s.items, v)

	return true
}

// Has reports whether a member equal to v is present.
func (s *Set) Has(v any) bool {
	_, ok := s.index[KeyOf(v)]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.items)
}

// Values returns a copy of the members in insertion order.
func (s *Set) Values() []any {
	return append([]any(nil), s.items...)
}

// All iterates members in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold the same members, order ignored.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}

	for key := range s.index {
		if _, ok := other.index[key]; !ok {
			return false
		}
	}

	return true
}
