package collection

import (
	"iter"
	"slices"
)

type entry struct {
	key   any
	value any
}

// Map is an insertion-ordered map from any key to any value.
type Map struct {
	Props

	entries []entry
	index   map[any]int // key identity -> position in entries
}

func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Get returns the value stored under key and whether it exists.
func (m *Map) Get(key any) (any, bool) {
	pos, ok := m.index[Identity(key)]
	if !ok {
		return nil, false
	}
	return m.entries[pos].value, true
}

func (m *Map) Has(key any) bool {
	_, ok := m.index[Identity(key)]
	return ok
}

// Set stores value under key. A new key is appended to the iteration order,
// an existing key keeps its position.
func (m *Map) Set(key, value any) {
	id := Identity(key)
	if pos, ok := m.index[id]; ok {
		m.entries[pos].value = value
		return
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}

	m.index[id] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	id := Identity(key)
	pos, ok := m.index[id]
	if !ok {
		return false
	}

	delete(m.index, id)
	m.entries = slices.Delete(m.entries, pos, pos+1)
	for i := pos; i < len(m.entries); i++ {
		m.index[Identity(m.entries[i].key)] = i
	}
	return true
}

func (m *Map) Clear() {
	m.entries = nil
	clear(m.index)
}

func (m *Map) Len() int {
	return len(m.entries)
}

// All iterates key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, e := range slices.Clone(m.entries) {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}
