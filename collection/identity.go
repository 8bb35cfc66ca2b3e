package collection

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// ErrNotComparable is raised (as a panic) when a value without an identity,
// such as a struct holding a slice, is used as a member or a key.
var ErrNotComparable = errors.New("observer: value is not comparable")

type reference struct {
	typ reflect.Type
	ptr unsafe.Pointer
	len int
}

// Identity returns a comparable identity for v.
// Maps, slices, funcs, chans and pointers are identified by what they point to,
// so two different maps with equal content are different members.
// Any other value is returned unchanged; it panics with ErrNotComparable when
// it cannot be compared.
func Identity(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return reference{typ: rv.Type(), ptr: rv.UnsafePointer()}
	case reflect.Slice:
		return reference{typ: rv.Type(), ptr: rv.UnsafePointer(), len: rv.Len()}
	}

	if !rv.Comparable() {
		panic(fmt.Errorf("%w: %T", ErrNotComparable, v))
	}
	return v
}

// Same reports whether a and b are the same value under Identity.
func Same(a, b any) (same bool) {
	defer func() {
		// non-comparable structs or arrays are never considered the same
		if recover() != nil {
			same = false
		}
	}()

	return Identity(a) == Identity(b)
}
