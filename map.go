package observer

import (
	"iter"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// Map is the observable wrapper of a collection.Map.
type Map struct {
	props

	rt  *internal.Runtime
	raw *collection.Map
	id  any
}

func (m *Map) unwrapped() any { return m.raw }

// Raw returns the wrapped map. Reading or writing it is invisible to effects.
func (m *Map) Raw() *collection.Map { return m.raw }

func (m *Map) entry(key any) internal.Key {
	return internal.MemberKey(collection.Identity(key))
}

func (m *Map) Has(key any) bool {
	key = unwrap(key)
	m.rt.Track(m.id, m.entry(key))

	return m.raw.Has(key)
}

// Get returns the value under key, or nil. Object values come out wrapped.
func (m *Map) Get(key any) any {
	key = unwrap(key)
	m.rt.Track(m.id, m.entry(key))

	v, _ := m.raw.Get(key)
	return wrap(m.rt, v)
}

// Set stores value under key. Readers of key re-run when the value changed,
// readers of the size and iterators only when key is new.
func (m *Map) Set(key, value any) {
	key, value = unwrap(key), unwrap(value)

	old, existed := m.raw.Get(key)
	m.raw.Set(key, value)

	if existed && collection.Same(old, value) {
		return
	}

	if existed {
		m.rt.Trigger(m.id, m.entry(key))
		return
	}
	m.rt.Trigger(m.id, m.entry(key), internal.SizeKey, internal.IterateKey)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	key = unwrap(key)
	if !m.raw.Delete(key) {
		return false
	}

	m.rt.Trigger(m.id, m.entry(key), internal.SizeKey, internal.IterateKey)
	return true
}

// Clear removes every entry. Each dependent effect re-runs once, and clearing
// an empty map re-runs nothing.
func (m *Map) Clear() {
	if m.raw.Len() == 0 {
		return
	}

	keys := make([]internal.Key, 0, m.raw.Len()+2)
	for _, k := range m.raw.Keys() {
		keys = append(keys, m.entry(k))
	}
	m.raw.Clear()

	m.rt.Trigger(m.id, append(keys, internal.SizeKey, internal.IterateKey)...)
}

func (m *Map) Size() int {
	m.rt.Track(m.id, internal.SizeKey)
	return m.raw.Len()
}

// entries yields wrapped pairs, tracking each yielded key so that value
// updates re-run the iterating effect.
func (m *Map) entries() iter.Seq2[any, any] {
	return oneShot2(func(yield func(any, any) bool) {
		for k, v := range m.raw.All() {
			m.rt.Track(m.id, m.entry(k))
			if !yield(wrap(m.rt, k), wrap(m.rt, v)) {
				return
			}
		}
	})
}

// All iterates key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	m.rt.Track(m.id, internal.IterateKey)
	return m.entries()
}

// Entries is the same as All.
func (m *Map) Entries() iter.Seq2[any, any] {
	m.rt.Track(m.id, internal.IterateKey)
	return m.entries()
}

// ForEach calls fn for every entry in insertion order.
func (m *Map) ForEach(fn func(value, key any)) {
	m.rt.Track(m.id, internal.IterateKey)
	for k, v := range m.entries() {
		fn(v, k)
	}
}

// Keys iterates the keys. It does not depend on the values.
func (m *Map) Keys() iter.Seq[any] {
	m.rt.Track(m.id, internal.IterateKey)

	return oneShot(func(yield func(any) bool) {
		for k := range m.raw.All() {
			if !yield(wrap(m.rt, k)) {
				return
			}
		}
	})
}

func (m *Map) Values() iter.Seq[any] {
	m.rt.Track(m.id, internal.IterateKey)

	return oneShot(func(yield func(any) bool) {
		for _, v := range m.entries() {
			if !yield(v) {
				return
			}
		}
	})
}
