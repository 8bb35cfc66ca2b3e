package observer

import (
	"iter"
	"maps"
	"slices"

	"github.com/AnatoleLucet/observer/internal"
)

// Object is the observable wrapper of a record.
type Object struct {
	rt  *internal.Runtime
	raw map[string]any
	id  any
}

func (o *Object) unwrapped() any { return o.raw }

// Raw returns the wrapped map. Reading or writing it is invisible to effects.
func (o *Object) Raw() map[string]any { return o.raw }

func (o *Object) props() properties[string] {
	return properties[string]{
		rt:     o.rt,
		target: o.id,
		store:  recordStore(o.raw),
		keyOf:  internal.PropKey,

		structural: true,
	}
}

// Get reads a property, wrapping records, sequences and collections on the way out.
// RawKey returns the wrapped map itself.
func (o *Object) Get(key string) any {
	if key == RawKey {
		return o.raw
	}
	return o.props().get(key)
}

func (o *Object) Has(key string) bool {
	return o.props().has(key)
}

// Set writes a property. Writing the value already stored re-runs nothing.
// A new property also re-runs readers of Len and the iterators.
func (o *Object) Set(key string, value any) {
	o.props().set(key, value)
}

// Delete removes a property and reports whether it existed.
func (o *Object) Delete(key string) bool {
	return o.props().delete(key)
}

// Len returns the number of properties.
func (o *Object) Len() int {
	o.rt.Track(o.id, internal.SizeKey)
	return len(o.raw)
}

// Keys iterates the property names in sorted order.
func (o *Object) Keys() iter.Seq[string] {
	o.rt.Track(o.id, internal.IterateKey)

	return oneShot(func(yield func(string) bool) {
		for _, key := range slices.Sorted(maps.Keys(o.raw)) {
			if !yield(key) {
				return
			}
		}
	})
}

// All iterates the properties in key order. Values are read like Get.
func (o *Object) All() iter.Seq2[string, any] {
	o.rt.Track(o.id, internal.IterateKey)

	return oneShot2(func(yield func(string, any) bool) {
		for _, key := range slices.Sorted(maps.Keys(o.raw)) {
			if _, ok := o.raw[key]; !ok {
				continue
			}
			if !yield(key, o.props().get(key)) {
				return
			}
		}
	})
}
