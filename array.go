package observer

import (
	"fmt"
	"iter"
	"slices"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// Array is the observable wrapper of a sequence.
type Array struct {
	rt  *internal.Runtime
	raw *[]any
	id  any
}

func (a *Array) unwrapped() any { return a.raw }

// Raw returns the wrapped slice pointer. Reading or writing it is invisible to effects.
func (a *Array) Raw() *[]any { return a.raw }

type sequenceStore struct {
	raw *[]any
}

func (s sequenceStore) load(i int) (any, bool) {
	if i < 0 || i >= len(*s.raw) {
		return nil, false
	}
	return (*s.raw)[i], true
}

func (s sequenceStore) store(i int, value any) {
	if i == len(*s.raw) {
		*s.raw = append(*s.raw, value)
		return
	}
	(*s.raw)[i] = value
}

func (s sequenceStore) remove(i int) {
	*s.raw = slices.Delete(*s.raw, i, i+1)
}

func indexKey(i int) internal.Key {
	return internal.MemberKey(i)
}

func (a *Array) items() properties[int] {
	return properties[int]{
		rt:     a.rt,
		target: a.id,
		store:  sequenceStore{a.raw},
		keyOf:  indexKey,

		structural: true,
	}
}

// Get reads the element at i, or nil when i is out of range.
func (a *Array) Get(i int) any {
	return a.items().get(i)
}

// Has reports whether i is a valid index.
func (a *Array) Has(i int) bool {
	return a.items().has(i)
}

// Set writes the element at i. Setting i == Len appends.
// Any other index outside of the sequence panics with ErrIndex.
func (a *Array) Set(i int, value any) {
	if i < 0 || i > len(*a.raw) {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndex, i, len(*a.raw)))
	}

	a.items().set(i, value)
}

// Append adds values at the end of the sequence.
func (a *Array) Append(values ...any) {
	if len(values) == 0 {
		return
	}

	start := len(*a.raw)
	for _, v := range values {
		*a.raw = append(*a.raw, unwrap(v))
	}

	keys := []internal.Key{}
	for i := start; i < len(*a.raw); i++ {
		keys = append(keys, indexKey(i))
	}
	a.rt.Trigger(a.id, append(keys, internal.SizeKey, internal.IterateKey)...)
}

// Delete removes the element at i, shifting the following ones down.
// It reports whether i was a valid index.
func (a *Array) Delete(i int) bool {
	if i < 0 || i >= len(*a.raw) {
		return false
	}

	before := slices.Clone(*a.raw)
	sequenceStore{a.raw}.remove(i)
	after := *a.raw

	// every index whose element moved or vanished
	keys := []internal.Key{}
	for j := i; j < len(before); j++ {
		if j >= len(after) || !collection.Same(before[j], after[j]) {
			keys = append(keys, indexKey(j))
		}
	}
	a.rt.Trigger(a.id, append(keys, internal.SizeKey, internal.IterateKey)...)
	return true
}

// Len returns the length of the sequence.
func (a *Array) Len() int {
	a.rt.Track(a.id, internal.SizeKey)
	return len(*a.raw)
}

// All iterates indices and elements. Elements are read like Get.
func (a *Array) All() iter.Seq2[int, any] {
	a.rt.Track(a.id, internal.IterateKey)

	return oneShot2(func(yield func(int, any) bool) {
		for i := 0; i < len(*a.raw); i++ {
			if !yield(i, a.items().get(i)) {
				return
			}
		}
	})
}

// Values iterates the elements.
func (a *Array) Values() iter.Seq[any] {
	a.rt.Track(a.id, internal.IterateKey)

	return oneShot(func(yield func(any) bool) {
		for i := 0; i < len(*a.raw); i++ {
			if !yield(a.items().get(i)) {
				return
			}
		}
	})
}
