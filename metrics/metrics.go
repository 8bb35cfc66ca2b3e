// Package metrics exports the activity of an observer runtime to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	rt := observer.NewRuntime(observer.WithHooks(metrics.New(metrics.WithRegistry(reg))))
//
// Metrics collected:
//   - observer_effect_runs_total: Counter of effect runs
//   - observer_effect_panics_total: Counter of runs that panicked
//   - observer_effect_run_duration_seconds: Histogram of run durations
//   - observer_active_effects: Gauge of effects created and not yet disposed
//   - observer_triggers_total: Counter of triggers that re-ran effects, by key kind
//   - observer_triggered_effects_total: Counter of effects scheduled by those triggers
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/observer"
)

type Config struct {
	// Namespace is the metrics namespace (default: "observer").
	Namespace string

	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the registerer the metrics are created on.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registerer. Registering twice on the same one panics,
// so give each Hooks its own registry or share a single Hooks between runtimes.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "observer",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Hooks records runtime activity. Pass it to observer.WithHooks.
type Hooks struct {
	observer.BaseHooks

	runs          prometheus.Counter
	panics        prometheus.Counter
	runDuration   prometheus.Histogram
	activeEffects prometheus.Gauge
	triggers      *prometheus.CounterVec
	triggered     prometheus.Counter
}

func New(opts ...Option) *Hooks {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Hooks{
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}),

		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_panics_total",
			Help:        "Total number of effect runs that panicked",
			ConstLabels: config.ConstLabels,
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds, nested runs included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeEffects: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_effects",
			Help:        "Number of effects created and not yet disposed",
			ConstLabels: config.ConstLabels,
		}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of triggers that had dependent effects",
			ConstLabels: config.ConstLabels,
		}, []string{"key"}),

		triggered: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggered_effects_total",
			Help:        "Total number of effects scheduled by triggers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (h *Hooks) EffectCreated(*observer.Effect) {
	h.activeEffects.Inc()
}

func (h *Hooks) EffectDisposed(*observer.Effect) {
	h.activeEffects.Dec()
}

func (h *Hooks) AfterRun(_ *observer.Effect, elapsed time.Duration, recovered any) {
	h.runs.Inc()
	h.runDuration.Observe(elapsed.Seconds())

	if recovered != nil {
		h.panics.Inc()
	}
}

func (h *Hooks) Triggered(key observer.Key, effects int) {
	h.triggers.WithLabelValues(key.Label()).Inc()
	h.triggered.Add(float64(effects))
}
