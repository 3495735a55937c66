package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ompsweep/internal/config"
	"ompsweep/internal/grid"
	"ompsweep/internal/measure"
	"ompsweep/internal/record"
	"ompsweep/internal/sweep"
	"ompsweep/internal/toolchain"
)

func newSizeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Sweep schedules and chunk sizes across matrix sizes",
		Long: `Builds one binary per matrix size (iteration count fixed) and, for each,
measures every schedule with every explicit chunk size, a default-chunk run
per schedule, and a single-thread baseline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), flags, func(cfg config.Config) (grid.Plan, record.Schema, string, error) {
				plan, err := grid.SizeSweep(cfg.SizeSweep.Sizes, cfg.SizeSweep.Iterations, cfg.Threads, cfg.SizeSweep.Chunks)
				return plan, record.SizeSweepSchema, cfg.SizeSweep.Output, err
			})
		},
	}
}

func newRepsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reps",
		Short: "Sweep the single-thread baseline across iteration counts",
		Long: `Builds one binary per iteration count (matrix size fixed) and measures each
once as a single-thread baseline, recording per-iteration averages alongside
the total times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), flags, func(cfg config.Config) (grid.Plan, record.Schema, string, error) {
				plan, err := grid.RepsSweep(cfg.RepsSweep.Reps, cfg.RepsSweep.MatrixSize)
				return plan, record.RepsSweepSchema, cfg.RepsSweep.Output, err
			})
		},
	}
}

// planner derives the plan, schema, and output file name for one sweep shape.
type planner func(config.Config) (grid.Plan, record.Schema, string, error)

func runSweep(ctx context.Context, flags *rootFlags, plan planner) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyOverrides(&cfg, flags)

	p, schema, output, err := plan(cfg)
	if err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{
		"source":  cfg.Source,
		"threads": cfg.Threads,
	})

	// Output locations are reset exactly once, before anything runs. This is
	// the only unrecoverable failure point.
	if err := sweep.ResetDirs(cfg.BinDir, cfg.ResultsDir); err != nil {
		return fmt.Errorf("initializing output locations: %w", err)
	}

	dataset, err := record.Create(filepath.Join(cfg.ResultsDir, output), schema)
	if err != nil {
		return fmt.Errorf("initializing dataset: %w", err)
	}
	defer dataset.Close()

	builder := toolchain.NewGCC(cfg.Compiler, cfg.CompilerFlags, cfg.Source, cfg.BinDir, log)
	runner := measure.NewExec(cfg.Timeout.Std())

	report, err := sweep.New(builder, runner, dataset, log).Sweep(ctx, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.WithField("rows", dataset.Rows()).Warn("sweep stopped early; recorded rows are intact")
		}
		return err
	}

	fmt.Printf("Sweep complete: %d rows in %s (%d runs failed, %d builds skipped)\n",
		dataset.Rows(), dataset.Path(), report.RunsFailed, report.GroupsSkipped)
	return nil
}
