package observer

import (
	"log/slog"

	"github.com/AnatoleLucet/observer/internal"
)

// Option configures a Runtime.
type Option = internal.Option

// Hooks observes effect creation, runs, triggers and disposal.
// Embed BaseHooks to implement only what you need.
type Hooks = internal.Hooks

type BaseHooks = internal.BaseHooks

// Key identifies what was read or mutated within an observable. Hooks receive it.
type Key = internal.Key

// WithLogger sets the logger receiving debug records for effect runs and
// triggers, and error records for effect panics. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *internal.Config) {
		c.Logger = logger
	}
}

// WithHooks adds lifecycle hooks, called in the given order.
func WithHooks(hooks ...Hooks) Option {
	return func(c *internal.Config) {
		c.Hooks = append(c.Hooks, hooks...)
	}
}

// WithMaxDepth bounds how deep effects may re-run each other within a single
// mutation before the runtime panics with ErrMaxDepth. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *internal.Config) {
		c.MaxDepth = depth
	}
}
