package internal

import (
	"iter"
	"slices"
)

// Owner is the lifecycle scope of an effect: it holds the effects created
// during its run, the cleanups registered with OnCleanup and the panic catchers.
type Owner struct {
	// cleanup functions called once, before the next run or on dispose
	cleanups []func()

	// called each time the owner is disposed
	disposers []func()

	// panic error handlers
	catchers []func(any)

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

func newOwner() *Owner {
	return &Owner{
		cleanups: make([]func(), 0),
	}
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			if !yield(child) {
				return
			}

			child = child.nextSibling
		}
	}
}

// Dispose disposes the children, then runs the pending cleanups and the dispose listeners.
func (o *Owner) Dispose() {
	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.DisposeChildren()
	o.runCleanups()

	for _, fn := range o.disposers {
		fn()
	}
}

func (o *Owner) DisposeChildren() {
	// collected first since disposing a child unlinks it
	for _, child := range slices.Collect(o.Children()) {
		child.Dispose()
	}
	o.childrenHead = nil
}

func (o *Owner) runCleanups() {
	cleanups := o.cleanups
	o.cleanups = nil

	for _, fn := range cleanups {
		fn()
	}
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}

// catch hands a recovered panic to the closest owner with catchers.
// It returns false when nobody is listening.
func (o *Owner) catch(r any) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(r)
		}
		return true
	}

	return false
}
