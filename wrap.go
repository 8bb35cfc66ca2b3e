package observer

import (
	"iter"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// lookup returns the wrapper remembered for raw, or creates and remembers one.
func lookup[P any](rt *internal.Runtime, raw any, create func(id any) P) P {
	id := collection.Identity(raw)

	if p, ok := rt.Proxy(id); ok {
		if typed, ok := p.(P); ok {
			return typed
		}
	}

	p := create(id)
	rt.Remember(id, p)
	return p
}

func observeObject(rt *internal.Runtime, raw map[string]any) *Object {
	return lookup(rt, raw, func(id any) *Object {
		return &Object{rt: rt, raw: raw, id: id}
	})
}

func observeArray(rt *internal.Runtime, raw *[]any) *Array {
	return lookup(rt, raw, func(id any) *Array {
		return &Array{rt: rt, raw: raw, id: id}
	})
}

func observeSet(rt *internal.Runtime, raw *collection.Set) *Set {
	return lookup(rt, raw, func(id any) *Set {
		s := &Set{rt: rt, raw: raw, id: id}
		s.props = newProps(rt, id, raw, &raw.Props)
		return s
	})
}

func observeMap(rt *internal.Runtime, raw *collection.Map) *Map {
	return lookup(rt, raw, func(id any) *Map {
		m := &Map{rt: rt, raw: raw, id: id}
		m.props = newProps(rt, id, raw, &raw.Props)
		return m
	})
}

// wrap returns the wrapper of object-valued v and any other value unchanged.
// Nested values are wrapped lazily, when they are read.
func wrap(rt *internal.Runtime, v any) any {
	switch raw := v.(type) {
	case map[string]any:
		if raw != nil {
			return observeObject(rt, raw)
		}
	case *[]any:
		if raw != nil {
			return observeArray(rt, raw)
		}
	case *collection.Set:
		if raw != nil {
			return observeSet(rt, raw)
		}
	case *collection.Map:
		if raw != nil {
			return observeMap(rt, raw)
		}
	}

	return v
}

// unwrap keeps wrappers out of raw data.
func unwrap(v any) any {
	return Raw(v)
}

// oneShot makes seq yield at most once, like an iterator that cannot be restarted.
func oneShot[T any](seq iter.Seq[T]) iter.Seq[T] {
	used := false
	return func(yield func(T) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}

func oneShot2[K, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	used := false
	return func(yield func(K, V) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}
