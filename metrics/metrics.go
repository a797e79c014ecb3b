// Package metrics exports wire runs and scheduler batches to Prometheus.
//
//	c := metrics.NewCollector(metrics.WithRegistry(reg))
//	rt, err := wires.NewRuntime(wires.DefaultConfig(), wires.WithHooks(c))
package metrics

import (
	"time"

	"github.com/AnatoleLucet/wires"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	// Namespace is the metrics namespace (default: "wires").
	Namespace string

	Subsystem string

	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
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

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "wires",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements wires.Hooks.
type Collector struct {
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	batches     prometheus.Counter
	batchWires  *prometheus.CounterVec
}

var _ wires.Hooks = (*Collector)(nil)

func NewCollector(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "wire_runs_total",
			Help:        "Total number of wire runs",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "wire_run_duration_seconds",
			Help:        "Wire run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of scheduler batches",
			ConstLabels: config.ConstLabels,
		}),

		batchWires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_wires_total",
			Help:        "Wires handled by scheduler batches, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),
	}
}

func (c *Collector) WireRun(_ wires.ID, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	c.runs.WithLabelValues(result).Inc()
	c.runDuration.Observe(took.Seconds())
}

func (c *Collector) BatchRun(stats wires.BatchStats) {
	c.batches.Inc()

	c.batchWires.WithLabelValues("ran").Add(float64(stats.Ran))
	c.batchWires.WithLabelValues("failed").Add(float64(stats.Failed))
	c.batchWires.WithLabelValues("deferred").Add(float64(stats.Deferred))
	c.batchWires.WithLabelValues("deduplicated").Add(float64(stats.Deduplicated))
	c.batchWires.WithLabelValues("dropped").Add(float64(stats.Dropped))
}
