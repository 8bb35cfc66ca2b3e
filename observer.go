// Package observer makes plain Go data observable. Records (map[string]any),
// sequences (*[]any) and the raw collection.Set and collection.Map types are
// wrapped in Object, Array, Set and Map, and effects registered with Observe
// re-run whenever something they read through a wrapper changes.
//
//	todos := observer.ObservableSet(collection.NewSet())
//
//	observer.Observe(func() {
//	    fmt.Println("todos:", todos.Size())
//	})
//
//	todos.Add("write docs") // prints "todos: 1"
//	todos.Add("write docs") // already there, nothing runs
//
// Reads and writes through Raw are invisible to the engine.
package observer

import (
	"fmt"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// RawKey is the reserved property name returning the unwrapped value.
const RawKey = "$raw"

// Value is implemented by every wrapper: *Object, *Array, *Set and *Map.
type Value interface {
	unwrapped() any
}

// Effect is the handle returned by Observe.
type Effect = internal.Effect

// Runtime holds the dependency store, the running effects and the wrappers of
// one single-threaded reactive world. Values wrapped by a runtime report to it.
type Runtime struct {
	rt *internal.Runtime
}

// NewRuntime creates an isolated runtime.
func NewRuntime(opts ...Option) *Runtime {
	return &Runtime{internal.NewRuntime(opts...)}
}

// Default returns the runtime of the calling goroutine, used by the package level functions.
func Default() *Runtime {
	return &Runtime{internal.GetRuntime()}
}

// Release disposes the calling goroutine's default runtime and forgets it.
func Release() {
	internal.ReleaseRuntime()
}

// Observable wraps a record, sequence, set or map. Wrapping the same raw value
// twice returns the same wrapper, and wrapping a wrapper returns it unchanged.
func (r *Runtime) Observable(v any) (Value, error) {
	switch raw := v.(type) {
	case Value:
		return raw, nil
	case map[string]any:
		if raw == nil {
			return nil, fmt.Errorf("%w: nil map", ErrNotObject)
		}
		return observeObject(r.rt, raw), nil
	case *[]any:
		if raw == nil {
			return nil, fmt.Errorf("%w: nil slice pointer", ErrNotObject)
		}
		return observeArray(r.rt, raw), nil
	case *collection.Set:
		if raw == nil {
			return nil, fmt.Errorf("%w: nil set", ErrNotObject)
		}
		return observeSet(r.rt, raw), nil
	case *collection.Map:
		if raw == nil {
			return nil, fmt.Errorf("%w: nil map collection", ErrNotObject)
		}
		return observeMap(r.rt, raw), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrNotObject, v)
}

func (r *Runtime) ObservableObject(raw map[string]any) *Object {
	return mustObserve(r, raw, AsObject)
}

func (r *Runtime) ObservableArray(raw *[]any) *Array {
	return mustObserve(r, raw, AsArray)
}

func (r *Runtime) ObservableSet(raw *collection.Set) *Set {
	return mustObserve(r, raw, AsSet)
}

func (r *Runtime) ObservableMap(raw *collection.Map) *Map {
	return mustObserve(r, raw, AsMap)
}

func mustObserve[T any](r *Runtime, raw any, as func(Value) (T, error)) T {
	v, err := r.Observable(raw)
	if err != nil {
		panic(err)
	}

	typed, err := as(v)
	if err != nil {
		panic(err)
	}
	return typed
}

// Observe runs fn now and again whenever an observable it read changes.
// A panic in fn propagates to the caller of Observe, or of the mutation that
// re-ran it, unless the effect has an OnError handler.
func (r *Runtime) Observe(fn func()) *Effect {
	return r.rt.NewEffect(fn)
}

// Unobserve stops an effect for good.
func (r *Runtime) Unobserve(e *Effect) {
	e.Dispose()
}

// Untrack runs fn without recording its reads as dependencies of the running effect.
func (r *Runtime) Untrack(fn func()) {
	r.rt.Untrack(fn)
}

// OnCleanup registers fn on the running effect, to be called before its next
// run or when it is disposed.
func (r *Runtime) OnCleanup(fn func()) {
	r.rt.OnCleanup(fn)
}

// OnError handles the panics of the running effect and of the effects created
// inside it. Without a handler a panic propagates.
func (r *Runtime) OnError(fn func(recovered any)) {
	r.rt.OnError(fn)
}

// Dispose disposes every effect, drops every dependency and forgets every wrapper.
func (r *Runtime) Dispose() {
	r.rt.Dispose()
}

// Observable wraps v using the calling goroutine's runtime.
func Observable(v any) (Value, error) {
	return Default().Observable(v)
}

func ObservableObject(raw map[string]any) *Object {
	return Default().ObservableObject(raw)
}

func ObservableArray(raw *[]any) *Array {
	return Default().ObservableArray(raw)
}

func ObservableSet(raw *collection.Set) *Set {
	return Default().ObservableSet(raw)
}

func ObservableMap(raw *collection.Map) *Map {
	return Default().ObservableMap(raw)
}

// Observe registers an effect on the calling goroutine's runtime.
func Observe(fn func()) *Effect {
	return Default().Observe(fn)
}

func Unobserve(e *Effect) {
	e.Dispose()
}

func Untrack(fn func()) {
	Default().Untrack(fn)
}

func OnCleanup(fn func()) {
	Default().OnCleanup(fn)
}

func OnError(fn func(recovered any)) {
	Default().OnError(fn)
}

// Raw returns the unwrapped value of a wrapper, or v itself.
func Raw(v any) any {
	if w, ok := v.(Value); ok {
		return w.unwrapped()
	}
	return v
}

func IsObservable(v any) bool {
	_, ok := v.(Value)
	return ok
}

func AsObject(v Value) (*Object, error) {
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: %T is not a record", ErrKind, v)
}

func AsArray(v Value) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %T is not a sequence", ErrKind, v)
}

func AsSet(v Value) (*Set, error) {
	switch t := v.(type) {
	case *Set:
		return t, nil
	case *Map:
		return nil, fmt.Errorf("%w: map collection is not a set", ErrKind)
	}
	return nil, fmt.Errorf("%w: %T", ErrNotCollection, v)
}

func AsMap(v Value) (*Map, error) {
	switch t := v.(type) {
	case *Map:
		return t, nil
	case *Set:
		return nil, fmt.Errorf("%w: set collection is not a map", ErrKind)
	}
	return nil, fmt.Errorf("%w: %T", ErrNotCollection, v)
}
