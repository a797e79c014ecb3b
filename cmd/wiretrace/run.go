package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/AnatoleLucet/wires"
	"github.com/AnatoleLucet/wires/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	opSet    = "set"
	opAppend = "append"
	opDelete = "delete"
)

type runOptions struct {
	doc     string
	script  string
	watch   []string
	metrics bool
}

type watch struct {
	path string
	wire *wires.Wire[any]
	runs int
}

func runCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a script against a document",
		Example: `  wiretrace run --doc state.yaml --script steps.yaml --watch friends/0/id
  wiretrace run --doc state.toml --script steps.toml --watch a --watch b/c -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.doc, "doc", "", "Document to load into the store (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.script, "script", "", "Steps to apply (.yaml, .yml or .toml)")
	cmd.Flags().StringArrayVar(&opts.watch, "watch", nil, "Path to watch, keys separated by /")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print run and batch counters when done")
	_ = cmd.MarkFlagRequired("doc")

	return cmd
}

func run(out, errOut io.Writer, root *rootOptions, opts *runOptions) error {
	cfg := wires.DefaultConfig()
	if root.config != "" {
		loaded, err := wires.LoadConfig(root.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if root.verbose {
		cfg.LogLevel = "debug"
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(errOut, level, root.json)

	doc, err := readFile(opts.doc)
	if err != nil {
		return err
	}

	var steps []step
	if opts.script != "" {
		if steps, err = readScript(opts.script); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	rt, err := wires.NewRuntime(cfg,
		wires.WithLogger(logger.WithField("component", "wires")),
		wires.WithHooks(metrics.NewCollector(metrics.WithRegistry(reg))),
	)
	if err != nil {
		return err
	}

	rt.Run(func() {
		err = trace(out, logger, doc, steps, opts.watch)
	})
	if err != nil {
		return err
	}

	if opts.metrics {
		return printMetrics(out, reg)
	}

	return nil
}

func trace(out io.Writer, logger *logrus.Logger, doc map[string]any, steps []step, paths []string) error {
	store, err := wires.NewStore(doc)
	if err != nil {
		return err
	}
	defer store.Store().Close()

	watches := make([]*watch, 0, len(paths))
	for _, path := range paths {
		w := &watch{path: path, wire: wires.WireCursor(store.At(toAny(splitPath(path))...))}
		w.wire.Get()
		w.runs = w.wire.Runs()
		watches = append(watches, w)

		fmt.Fprintf(out, "watch %s = %v\n", path, w.wire.Get())
	}

	for i, s := range steps {
		logger.WithFields(logrus.Fields{
			"step": i + 1,
			"op":   s.Op,
			"path": s.Path,
		}).Debug("applying step")

		if err := apply(store, s); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i+1, s.Op, s.Path, err)
		}

		fmt.Fprintf(out, "step %d: %s %s\n", i+1, s.Op, s.Path)
		for _, w := range watches {
			if runs := w.wire.Runs(); runs != w.runs {
				w.runs = runs
				fmt.Fprintf(out, "  %s -> %v\n", w.path, w.wire.Get())
			}
		}
	}

	return nil
}

// apply runs one step through Produce on the parent of its path, so new keys
// and list elements can be created.
func apply(store wires.Cursor, s step) error {
	keys := splitPath(s.Path)

	if s.Op == opAppend {
		var opErr error
		err := wires.Produce(store.At(toAny(keys)...), func(v any) any {
			list, ok := v.([]any)
			if !ok {
				opErr = fmt.Errorf("not a list: %T", v)
				return v
			}
			return append(list, s.Value)
		})
		return firstErr(err, opErr)
	}

	if len(keys) == 0 {
		if s.Op == opDelete {
			return fmt.Errorf("cannot delete the root")
		}
		return wires.Produce(store, func(any) any { return s.Value })
	}

	parent, key := keys[:len(keys)-1], keys[len(keys)-1]

	var opErr error
	err := wires.Produce(store.At(toAny(parent)...), func(v any) any {
		switch p := v.(type) {
		case map[string]any:
			if s.Op == opDelete {
				delete(p, key)
			} else {
				p[key] = s.Value
			}
			return p

		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i > len(p) || (i == len(p) && s.Op == opDelete) {
				opErr = fmt.Errorf("index %q out of range", key)
				return p
			}
			switch {
			case s.Op == opDelete:
				return slices.Delete(p, i, i+1)
			case i == len(p):
				return append(p, s.Value)
			default:
				p[i] = s.Value
				return p
			}

		default:
			opErr = fmt.Errorf("cannot %s a key of %T", s.Op, v)
			return v
		}
	})

	return firstErr(err, opErr)
}

func firstErr(err, opErr error) error {
	if err != nil {
		return err
	}

	return opErr
}

func toAny(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}

	return out
}

func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "metrics:")
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var pairs []string
			for _, l := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			labels := ""
			if len(pairs) > 0 {
				labels = "{" + strings.Join(pairs, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "  %s%s %g\n", f.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(out, "  %s_count%s %d\n", f.GetName(), labels, m.GetHistogram().GetSampleCount())
			}
		}
	}

	return nil
}
