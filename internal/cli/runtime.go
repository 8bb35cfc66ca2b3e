package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/AnatoleLucet/observer"
	"github.com/AnatoleLucet/observer/metrics"
	"github.com/AnatoleLucet/observer/tracing"
)

// environment is the runtime a scenario runs in, built from the resolved config.
type environment struct {
	runtime  *observer.Runtime
	registry *prometheus.Registry
}

func newEnvironment(config Config, logs io.Writer) (*environment, error) {
	level, err := config.Level()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: level}))
	env := &environment{}

	opts := []observer.Option{
		observer.WithLogger(logger),
		observer.WithMaxDepth(config.MaxDepth),
	}

	if config.Metrics {
		env.registry = prometheus.NewRegistry()
		opts = append(opts, observer.WithHooks(metrics.New(metrics.WithRegistry(env.registry))))
	}
	if config.Tracing {
		opts = append(opts, observer.WithHooks(tracing.New()))
	}

	env.runtime = observer.NewRuntime(opts...)
	return env, nil
}

// writeMetrics prints counters and gauges, and the sample count of histograms,
// one per line in the registry's order.
func writeMetrics(w io.Writer, registry prometheus.Gatherer) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	fmt.Fprintln(w, "--- metrics")
	for _, family := range families {
		for _, m := range family.GetMetric() {
			name := family.GetName()
			var value float64

			switch family.GetType() {
			case dto.MetricType_COUNTER:
				value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				name += "_count"
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}

			fmt.Fprintf(w, "%s%s %g\n", name, labels(m), value)
		}
	}

	return nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}
