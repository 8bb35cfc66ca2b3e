// Package collection provides the raw, non-reactive set and map types that
// observer wraps. They keep insertion order, key members by Identity, and carry
// a Props bag for ordinary named properties.
package collection

import (
	"iter"
	"slices"
)

// Set is an insertion-ordered set of values.
type Set struct {
	Props

	items []any
	index map[any]int // identity -> position in items
}

// NewSet creates a set holding the given values, duplicates dropped.
func NewSet(values ...any) *Set {
	s := &Set{index: make(map[any]int, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *Set) Has(value any) bool {
	_, ok := s.index[Identity(value)]
	return ok
}

// Add inserts value and reports whether it was absent.
func (s *Set) Add(value any) bool {
	id := Identity(value)
	if _, ok := s.index[id]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[any]int)
	}

	s.index[id] = len(s.items)
	s.items = append(s.items, value)
	return true
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value any) bool {
	id := Identity(value)
	pos, ok := s.index[id]
	if !ok {
		return false
	}

	delete(s.index, id)
	s.items = slices.Delete(s.items, pos, pos+1)
	for i := pos; i < len(s.items); i++ {
		s.index[Identity(s.items[i])] = i
	}
	return true
}

func (s *Set) Clear() {
	s.items = nil
	clear(s.index)
}

func (s *Set) Len() int {
	return len(s.items)
}

// All iterates the values in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range slices.Clone(s.items) {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the values in insertion order.
func (s *Set) Slice() []any {
	return slices.Clone(s.items)
}
