package observer

import (
	"errors"

	"github.com/AnatoleLucet/observer/collection"
	"github.com/AnatoleLucet/observer/internal"
)

// ErrNotObject is returned when wrapping a value that has no identity to observe,
// such as a number, a string or a nil map.
var ErrNotObject = errors.New("observer: value cannot be observed")

// ErrNotCollection is returned when a collection-only operation is asked of a
// record or a sequence.
var ErrNotCollection = errors.New("observer: not a collection")

// ErrKind is returned when narrowing a Value to the wrong wrapper kind.
var ErrKind = errors.New("observer: wrong observable kind")

// ErrIndex is raised (as a panic) by Array writes outside of [0, Len].
var ErrIndex = errors.New("observer: index out of range")

// ErrNotComparable is raised (as a panic) when a set member or a map key is a
// value that Go cannot compare, such as a struct holding a slice.
var ErrNotComparable = collection.ErrNotComparable

// ErrMaxDepth is raised (as a panic) when effects re-run each other deeper than
// the limit set with WithMaxDepth.
var ErrMaxDepth = internal.ErrMaxDepth
