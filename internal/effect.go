package internal

import (
	"slices"

	"github.com/google/uuid"
)

// Effect is a computation that re-runs whenever a (target, key) it read during
// its last run is triggered.
type Effect struct {
	*Owner

	id uuid.UUID
	rt *Runtime
	fn func()

	// buckets this effect is registered in since its last run started
	deps []*bucket

	runs     int
	disposed bool
}

func (r *Runtime) NewEffect(fn func()) *Effect {
	e := &Effect{
		Owner: newOwner(),
		id:    uuid.New(),
		rt:    r,
		fn:    fn,
	}
	e.OnDispose(e.teardown)

	r.currentOwner().AddChild(e.Owner)

	r.logger.Debug("effect created", "effect", e.id)
	r.hooks.EffectCreated(e)

	r.Run(e)

	return e
}

func (e *Effect) ID() uuid.UUID { return e.id }

// Runs returns how many times the body started executing.
func (e *Effect) Runs() int { return e.runs }

func (e *Effect) Disposed() bool { return e.disposed }

// Deps returns the number of (target, key) pairs read by the last run.
func (e *Effect) Deps() int { return len(e.deps) }

// Dispose stops the effect: it leaves every bucket, its children are disposed
// and its cleanups run. A disposed effect never runs again.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.Owner.Dispose()
}

func (e *Effect) teardown() {
	if e.disposed {
		return
	}
	e.disposed = true

	e.rt.store.Cleanup(e)

	e.rt.logger.Debug("effect disposed", "effect", e.id, "runs", e.runs)
	e.rt.hooks.EffectDisposed(e)
}

// clean prepares a re-run: the previous run's children, cleanups and error
// handlers go away and every registration is dropped so stale dependencies do
// not survive.
func (e *Effect) clean() {
	e.DisposeChildren()
	e.runCleanups()
	e.catchers = nil
	e.rt.store.Cleanup(e)
}

func (e *Effect) addDep(b *bucket) {
	e.deps = append(e.deps, b)
}

func (e *Effect) clearDeps() []*bucket {
	deps := slices.Clone(e.deps)
	e.deps = e.deps[:0]
	return deps
}
