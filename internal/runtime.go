package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrMaxDepth is raised (as a panic) when effects re-run each other deeper than the configured limit.
var ErrMaxDepth = errors.New("observer: maximum effect depth exceeded")

const DefaultMaxDepth = 100

type Config struct {
	Logger   *slog.Logger
	Hooks    []Hooks
	MaxDepth int
}

type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Logger:   slog.New(slog.DiscardHandler),
		MaxDepth: DefaultMaxDepth,
	}
}

// Runtime is the explicit context of the engine: the dependency store, the
// active-effect stack and the table of wrappers. It is not safe for concurrent use.
type Runtime struct {
	store   *Store
	tracker *Tracker

	// raw identity -> wrapper
	proxies map[any]any

	// owns the effects created outside of any effect
	root *Owner

	logger   *slog.Logger
	hooks    Hooks
	maxDepth int
}

func NewRuntime(opts ...Option) *Runtime {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	return &Runtime{
		store:   NewStore(),
		tracker: NewTracker(),
		proxies: make(map[any]any),
		root:    newOwner(),

		logger:   config.Logger,
		hooks:    multiHooks(config.Hooks),
		maxDepth: config.MaxDepth,
	}
}

func (r *Runtime) currentOwner() *Owner {
	if e := r.tracker.Current(); e != nil {
		return e.Owner
	}
	return r.root
}

// CurrentEffect returns the innermost running effect, or nil.
func (r *Runtime) CurrentEffect() *Effect {
	return r.tracker.Current()
}

// Track records that the running effect, if any, read key of target.
func (r *Runtime) Track(target any, key Key) {
	if !r.tracker.ShouldTrack() {
		return
	}

	e := r.tracker.Current()
	if e.disposed {
		return
	}

	r.store.Add(target, key, e)
}

// Trigger re-runs every effect that read one of keys of target. The keys of
// one mutation form a single pass: an effect depending on several of them
// runs once, in the order it was first found, each key in registration order.
func (r *Runtime) Trigger(target any, keys ...Key) {
	var effects []*Effect
	seen := make(map[*Effect]struct{})

	for _, key := range keys {
		dependents := r.store.Dependents(target, key)
		if len(dependents) == 0 {
			continue
		}

		r.logger.Debug("trigger", "key", key.String(), "effects", len(dependents))
		r.hooks.Triggered(key, len(dependents))

		for _, e := range dependents {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			effects = append(effects, e)
		}
	}

	for _, e := range effects {
		r.Run(e)
	}
}

// Run executes the effect body under tracking. An effect that is already on
// the stack is not run again, so an effect writing what it reads cannot recurse.
func (r *Runtime) Run(e *Effect) {
	if e.disposed || r.tracker.Active(e) {
		return
	}

	if r.maxDepth > 0 && r.tracker.Depth() >= r.maxDepth {
		panic(fmt.Errorf("%w: %d nested runs", ErrMaxDepth, r.maxDepth))
	}

	e.clean()
	e.runs++

	r.logger.Debug("effect run", "effect", e.id, "runs", e.runs)
	r.hooks.BeforeRun(e)

	start := time.Now()
	recovered := r.execute(e)

	r.hooks.AfterRun(e, time.Since(start), recovered)

	if recovered == nil {
		return
	}

	r.logger.Error("effect panicked", "effect", e.id, "panic", recovered)
	if !e.catch(recovered) {
		panic(recovered)
	}
}

func (r *Runtime) execute(e *Effect) (recovered any) {
	defer func() {
		recovered = recover()
	}()

	r.tracker.RunWithEffect(e, e.fn)
	return nil
}

// Untrack runs fn without crediting its reads to the running effect.
func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// OnCleanup registers fn on the running effect. Outside of an effect it is a no-op.
func (r *Runtime) OnCleanup(fn func()) {
	if e := r.tracker.Current(); e != nil {
		e.OnCleanup(fn)
	}
}

// OnError registers fn as the panic handler of the running effect and of the
// effects created inside it, until the effect re-runs. Outside of an effect it is a no-op.
func (r *Runtime) OnError(fn func(any)) {
	if e := r.tracker.Current(); e != nil {
		e.Owner.OnError(fn)
	}
}

// Proxy returns the wrapper remembered for a raw identity.
func (r *Runtime) Proxy(id any) (any, bool) {
	p, ok := r.proxies[id]
	return p, ok
}

// Remember records the wrapper of a raw identity.
func (r *Runtime) Remember(id any, proxy any) {
	r.proxies[id] = proxy
}

// Buckets returns the number of live dependency buckets.
func (r *Runtime) Buckets() int {
	return r.store.Len()
}

// Dispose disposes every effect, drops all buckets and forgets every wrapper.
// The runtime is empty and usable afterwards.
func (r *Runtime) Dispose() {
	r.root.DisposeChildren()
	r.store.Reset()
	clear(r.proxies)

	r.logger.Debug("runtime disposed")
}
