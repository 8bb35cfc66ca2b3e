// Package tracing opens an OpenTelemetry span for every effect run of an
// observer runtime. Runs started while another one is in progress become its
// children, so a mutation that cascades through several effects shows up as
// one trace.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/observer"
)

const (
	defaultTracerName = "github.com/AnatoleLucet/observer"

	SpanName = "observer.effect.run"
)

type Config struct {
	// TracerName is the instrumentation name of the tracer.
	TracerName string

	// Provider defaults to the global tracer provider.
	Provider trace.TracerProvider

	// Context is the parent of top level runs.
	Context context.Context
}

type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

type run struct {
	ctx  context.Context
	span trace.Span
}

// Hooks traces a single runtime. Pass it to observer.WithHooks.
type Hooks struct {
	observer.BaseHooks

	tracer trace.Tracer
	ctx    context.Context

	// runs in progress, innermost last
	stack []run
}

func New(opts ...Option) *Hooks {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}

	return &Hooks{
		tracer: config.Provider.Tracer(config.TracerName),
		ctx:    config.Context,
	}
}

func (h *Hooks) parent() context.Context {
	if len(h.stack) == 0 {
		return h.ctx
	}
	return h.stack[len(h.stack)-1].ctx
}

func (h *Hooks) BeforeRun(e *observer.Effect) {
	ctx, span := h.tracer.Start(h.parent(), SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("effect.id", e.ID().String()),
			attribute.Int("effect.runs", e.Runs()),
		),
	)

	h.stack = append(h.stack, run{ctx, span})
}

func (h *Hooks) AfterRun(e *observer.Effect, _ time.Duration, recovered any) {
	if len(h.stack) == 0 {
		return
	}

	current := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]

	if recovered != nil {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		current.span.RecordError(err)
		current.span.SetStatus(codes.Error, err.Error())
	} else {
		current.span.SetStatus(codes.Ok, "")
	}

	current.span.SetAttributes(attribute.Int("effect.deps", e.Deps()))
	current.span.End()
}

// Triggered adds an event to the span of the run doing the mutation.
// Mutations made outside of any effect are not recorded.
func (h *Hooks) Triggered(key observer.Key, effects int) {
	if len(h.stack) == 0 {
		return
	}

	h.stack[len(h.stack)-1].span.AddEvent("trigger", trace.WithAttributes(
		attribute.String("key", key.String()),
		attribute.Int("effects", effects),
	))
}
