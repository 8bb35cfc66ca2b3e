package observer

import (
	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// propertyStore is the raw side of a keyed target.
type propertyStore[K comparable] interface {
	load(key K) (any, bool)
	store(key K, value any)
	remove(key K)
}

// properties implements read, has, write and delete of keyed targets, shared
// by records, sequences and the custom properties of collections.
type properties[K comparable] struct {
	rt     *internal.Runtime
	target any
	store  propertyStore[K]
	keyOf  func(K) internal.Key

	// adding or removing a key also changes the size and the iteration
	structural bool
}

func (p properties[K]) get(key K) any {
	p.rt.Track(p.target, p.keyOf(key))

	v, _ := p.store.load(key)
	return wrap(p.rt, v)
}

func (p properties[K]) has(key K) bool {
	p.rt.Track(p.target, p.keyOf(key))

	_, ok := p.store.load(key)
	return ok
}

// set triggers key only when it is new or its value changed, and reports whether it was new.
func (p properties[K]) set(key K, value any) (added bool) {
	value = unwrap(value)

	old, existed := p.store.load(key)
	p.store.store(key, value)

	switch {
	case !existed:
		p.rt.Trigger(p.target, p.changed(key)...)
	case !collection.Same(old, value):
		p.rt.Trigger(p.target, p.keyOf(key))
	}
	return !existed
}

// delete removes key and triggers it, or does nothing if key is absent.
func (p properties[K]) delete(key K) bool {
	if _, ok := p.store.load(key); !ok {
		return false
	}

	p.store.remove(key)
	p.rt.Trigger(p.target, p.changed(key)...)
	return true
}

// changed lists the keys to trigger when key appears or disappears.
func (p properties[K]) changed(key K) []internal.Key {
	if !p.structural {
		return []internal.Key{p.keyOf(key)}
	}
	return []internal.Key{p.keyOf(key), internal.SizeKey, internal.IterateKey}
}

type recordStore map[string]any

func (s recordStore) load(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

func (s recordStore) store(key string, value any) { s[key] = value }
func (s recordStore) remove(key string)           { delete(s, key) }

type bagStore struct {
	bag *collection.Props
}

func (s bagStore) load(name string) (any, bool) { return s.bag.LookupProp(name) }
func (s bagStore) store(name string, value any) { s.bag.SetProp(name, value) }
func (s bagStore) remove(name string)           { s.bag.DeleteProp(name) }

// props gives collections ordinary reactive properties next to their members.
type props struct {
	properties[string]

	raw any
}

func newProps(rt *internal.Runtime, id any, raw any, bag *collection.Props) props {
	return props{
		properties: properties[string]{
			rt:     rt,
			target: id,
			store:  bagStore{bag},
			keyOf:  internal.PropKey,
		},
		raw: raw,
	}
}

// Prop reads a custom property. RawKey returns the unwrapped collection.
func (p props) Prop(name string) any {
	if name == RawKey {
		return p.raw
	}
	return p.get(name)
}

func (p props) HasProp(name string) bool {
	return p.has(name)
}

// SetProp writes a custom property, re-running readers only if the value changed.
func (p props) SetProp(name string, value any) {
	p.set(name, value)
}

func (p props) DeleteProp(name string) bool {
	return p.delete(name)
}
