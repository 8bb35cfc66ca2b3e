package internal

import "time"

// Hooks observes the engine's lifecycle. Implementations must not mutate
// observables: they run inside the engine's bookkeeping.
type Hooks interface {
	EffectCreated(e *Effect)
	EffectDisposed(e *Effect)

	// BeforeRun and AfterRun surround every execution of an effect body.
	// Nested runs are strictly LIFO.
	BeforeRun(e *Effect)
	AfterRun(e *Effect, elapsed time.Duration, recovered any)

	// Triggered is called once per triggered key that reaches at least one effect,
	// before any of them re-runs.
	Triggered(key Key, effects int)
}

// BaseHooks provides no-op implementations of every Hooks method.
type BaseHooks struct{}

func (BaseHooks) EffectCreated(*Effect)                {}
func (BaseHooks) EffectDisposed(*Effect)               {}
func (BaseHooks) BeforeRun(*Effect)                    {}
func (BaseHooks) AfterRun(*Effect, time.Duration, any) {}
func (BaseHooks) Triggered(Key, int)                   {}

type multiHooks []Hooks

func (m multiHooks) EffectCreated(e *Effect) {
	for _, h := range m {
		h.EffectCreated(e)
	}
}

func (m multiHooks) EffectDisposed(e *Effect) {
	for _, h := range m {
		h.EffectDisposed(e)
	}
}

func (m multiHooks) BeforeRun(e *Effect) {
	for _, h := range m {
		h.BeforeRun(e)
	}
}

func (m multiHooks) AfterRun(e *Effect, elapsed time.Duration, recovered any) {
	// reverse order so hooks nest like deferred calls
	for i := len(m) - 1; i >= 0; i-- {
		m[i].AfterRun(e, elapsed, recovered)
	}
}

func (m multiHooks) Triggered(key Key, effects int) {
	for _, h := range m {
		h.Triggered(key, effects)
	}
}
