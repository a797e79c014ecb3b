package wires

import (
	"os"

	"github.com/AnatoleLucet/wires/internal"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

// Runtime serializes the signals, wires and stores created through it.
// Without an explicit runtime each goroutine uses its own default one.
type Runtime struct {
	rt *internal.Runtime
}

type Option = internal.Option

// WithLogger makes the runtime log to l instead of a logger built from Config.
func WithLogger(l *logrus.Entry) Option {
	return internal.WithLogger(l)
}

// WithHooks lets h observe wire runs and batches, see the metrics package.
func WithHooks(h Hooks) Option {
	return internal.WithHooks(h)
}

// NewRuntime creates a runtime configured by cfg. Options override cfg.
func NewRuntime(cfg Config, opts ...Option) (*Runtime, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if env := os.Getenv("WIRES_LOG_LEVEL"); env != "" {
		level = env
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetLevel(lvl)

	base := []Option{
		internal.WithLogger(logger.WithField("component", "wires")),
		internal.WithMaxDepth(cfg.MaxDepth),
	}

	return &Runtime{internal.NewRuntime(append(base, opts...)...)}, nil
}

// Run binds the runtime to the calling goroutine while fn runs: signals,
// wires and stores created inside fn belong to it.
func (r *Runtime) Run(fn func()) {
	internal.WithRuntime(r.rt, fn)
}

// Batch runs fn and re-runs the wires notified by its writes once, after fn returns.
func (r *Runtime) Batch(fn func()) {
	r.rt.Batch(fn)
}

func (r *Runtime) Logger() *logrus.Entry {
	return r.rt.Logger()
}

func decode(in, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return d.Decode(in)
}
