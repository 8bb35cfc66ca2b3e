package internal

import "slices"

// bucket is the set of effects depending on one (target, key) pair,
// kept in registration order.
type bucket struct {
	target  any
	key     Key
	effects []*Effect
}

func (b *bucket) add(e *Effect) bool {
	if slices.Contains(b.effects, e) {
		return false
	}
	b.effects = append(b.effects, e)
	return true
}

func (b *bucket) remove(e *Effect) {
	if i := slices.Index(b.effects, e); i != -1 {
		b.effects = slices.Delete(b.effects, i, i+1)
	}
}

// Store maps target identities and keys to the effects that read them.
// The inverse mapping lives on each Effect (its deps) so cleanup never scans the store.
type Store struct {
	targets map[any]map[Key]*bucket
}

func NewStore() *Store {
	return &Store{
		targets: make(map[any]map[Key]*bucket),
	}
}

// Add registers e as a dependent of (target, key) and returns false if it already was.
func (s *Store) Add(target any, key Key, e *Effect) bool {
	keys, ok := s.targets[target]
	if !ok {
		keys = make(map[Key]*bucket)
		s.targets[target] = keys
	}

	b, ok := keys[key]
	if !ok {
		b = &bucket{target: target, key: key}
		keys[key] = b
	}

	if !b.add(e) {
		return false
	}
	e.addDep(b)
	return true
}

// Dependents returns a snapshot of the effects depending on (target, key).
func (s *Store) Dependents(target any, key Key) []*Effect {
	b, ok := s.targets[target][key]
	if !ok {
		return nil
	}

	// clonning to avoid mutation during iteration
	return slices.Clone(b.effects)
}

// Cleanup removes e from every bucket it is registered in.
func (s *Store) Cleanup(e *Effect) {
	for _, b := range e.clearDeps() {
		b.remove(e)
		if len(b.effects) == 0 {
			s.drop(b)
		}
	}
}

func (s *Store) drop(b *bucket) {
	keys := s.targets[b.target]
	if keys[b.key] != b {
		return
	}

	delete(keys, b.key)
	if len(keys) == 0 {
		delete(s.targets, b.target)
	}
}

// Len returns the number of live buckets.
func (s *Store) Len() int {
	n := 0
	for _, keys := range s.targets {
		n += len(keys)
	}
	return n
}

// Reset drops every bucket.
func (s *Store) Reset() {
	clear(s.targets)
}
