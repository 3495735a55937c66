// Package cli wires the sweep pipeline behind the ompsweep command tree.
package cli

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ompsweep/internal/config"
)

type rootFlags struct {
	configPath string
	source     string
	binDir     string
	resultsDir string
	threads    int
	timeout    time.Duration
	verbose    bool
}

// NewRootCommand builds the ompsweep command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "ompsweep",
		Short: "Benchmark OpenMP schedule and chunk-size choices for a compute workload",
		Long: `ompsweep builds one workload binary per build-time configuration, runs each
under every run-time environment in the sweep, parses the timing lines from
its output, and appends one CSV row per successful run. Failed builds and
runs are logged and skipped; the sweep always finishes and keeps every row
it has already recorded.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if flags.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to a sweep configuration file (YAML)")
	pf.StringVar(&flags.source, "source", "", "workload source file (overrides config)")
	pf.StringVar(&flags.binDir, "bin-dir", "", "artifact directory (overrides config)")
	pf.StringVar(&flags.resultsDir, "results-dir", "", "dataset directory (overrides config)")
	pf.IntVar(&flags.threads, "threads", 0, "thread count for parallel runs (overrides config)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-run timeout, e.g. 90s (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSizeCommand(flags))
	root.AddCommand(newRepsCommand(flags))
	return root
}

// applyOverrides folds explicit command-line flags into the loaded
// configuration. Flag values win over the file; unset flags change nothing.
func applyOverrides(cfg *config.Config, flags *rootFlags) {
	if flags.source != "" {
		cfg.Source = flags.source
	}
	if flags.binDir != "" {
		cfg.BinDir = flags.binDir
	}
	if flags.resultsDir != "" {
		cfg.ResultsDir = flags.resultsDir
	}
	if flags.threads > 0 {
		cfg.Threads = flags.threads
	}
	if flags.timeout > 0 {
		cfg.Timeout = config.Duration(flags.timeout)
	}
}
