package internal

import "slices"

// Tracker holds the active-effect stack. The innermost effect is credited for reads.
type Tracker struct {
	tracking bool

	stack []*Effect
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

// RunWithEffect pushes e for the duration of fn. The stack is popped even if fn panics.
func (t *Tracker) RunWithEffect(e *Effect, fn func()) {
	prevTracking := t.tracking
	t.tracking = true
	t.stack = append(t.stack, e)

	defer func() {
		t.stack = t.stack[:len(t.stack)-1]
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Current returns the innermost running effect, or nil.
func (t *Tracker) Current() *Effect {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// Active reports whether e is anywhere on the stack.
func (t *Tracker) Active(e *Effect) bool {
	return slices.Contains(t.stack, e)
}

func (t *Tracker) Depth() int {
	return len(t.stack)
}

func (t *Tracker) ShouldTrack() bool {
	return t.tracking && len(t.stack) > 0
}
