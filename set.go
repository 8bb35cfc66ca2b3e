package observer

import (
	"iter"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// Set is the observable wrapper of a collection.Set.
// Membership is tracked per value, structure through Size and the iterators.
// Custom properties are available through Prop and SetProp.
type Set struct {
	props

	rt  *internal.Runtime
	raw *collection.Set
	id  any
}

func (s *Set) unwrapped() any { return s.raw }

// Raw returns the wrapped set. Reading or writing it is invisible to effects.
func (s *Set) Raw() *collection.Set { return s.raw }

func (s *Set) member(value any) internal.Key {
	return internal.MemberKey(collection.Identity(value))
}

func (s *Set) Has(value any) bool {
	value = unwrap(value)
	s.rt.Track(s.id, s.member(value))

	return s.raw.Has(value)
}

// Add inserts value and reports whether it was absent. Adding a present value re-runs nothing.
func (s *Set) Add(value any) bool {
	value = unwrap(value)
	if !s.raw.Add(value) {
		return false
	}

	s.rt.Trigger(s.id, s.member(value), internal.SizeKey, internal.IterateKey)
	return true
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value any) bool {
	value = unwrap(value)
	if !s.raw.Delete(value) {
		return false
	}

	s.rt.Trigger(s.id, s.member(value), internal.SizeKey, internal.IterateKey)
	return true
}

// Clear removes every value. Each dependent effect re-runs once, and clearing
// an empty set re-runs nothing.
func (s *Set) Clear() {
	if s.raw.Len() == 0 {
		return
	}

	values := s.raw.Slice()
	s.raw.Clear()

	keys := make([]internal.Key, 0, len(values)+2)
	for _, v := range values {
		keys = append(keys, s.member(v))
	}
	s.rt.Trigger(s.id, append(keys, internal.SizeKey, internal.IterateKey)...)
}

func (s *Set) Size() int {
	s.rt.Track(s.id, internal.SizeKey)
	return s.raw.Len()
}

func (s *Set) values() iter.Seq[any] {
	return oneShot(func(yield func(any) bool) {
		for v := range s.raw.All() {
			if !yield(wrap(s.rt, v)) {
				return
			}
		}
	})
}

// All iterates the values in insertion order.
func (s *Set) All() iter.Seq[any] {
	s.rt.Track(s.id, internal.IterateKey)
	return s.values()
}

// ForEach calls fn for every value in insertion order.
func (s *Set) ForEach(fn func(value any)) {
	s.rt.Track(s.id, internal.IterateKey)
	for v := range s.values() {
		fn(v)
	}
}

// Keys is the same as Values: a set's keys are its values.
func (s *Set) Keys() iter.Seq[any] {
	s.rt.Track(s.id, internal.IterateKey)
	return s.values()
}

func (s *Set) Values() iter.Seq[any] {
	s.rt.Track(s.id, internal.IterateKey)
	return s.values()
}

// Entries iterates (value, value) pairs.
func (s *Set) Entries() iter.Seq2[any, any] {
	s.rt.Track(s.id, internal.IterateKey)

	return oneShot2(func(yield func(any, any) bool) {
		for v := range s.raw.All() {
			v = wrap(s.rt, v)
			if !yield(v, v) {
				return
			}
		}
	})
}
