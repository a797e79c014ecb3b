// Command wiretrace loads a document into a store, watches paths of it and
// replays a script of mutations, printing which watches re-ran.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	json    bool
	config  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wiretrace",
		Short: "Trace which wires a store mutation re-runs",
		Long: `wiretrace loads a YAML or TOML document into a reactive store,
creates one wire per watched path and applies a script of mutations,
printing the wires each step re-ran and their new values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log scheduler batches")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Log as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", "Runtime config file (.yaml, .yml or .toml)")

	rootCmd.AddCommand(runCmd(opts))

	return rootCmd
}

func newLogger(w io.Writer, level logrus.Level, asJSON bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	// structured output unless a person is watching
	if asJSON || !isTerminal(w) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
