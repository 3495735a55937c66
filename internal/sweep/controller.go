// Package sweep drives the build -> run -> parse -> record pipeline over an
// enumerated configuration plan.
//
// The controller is the single owner of failure policy: build, run, and
// parse failures are logged with full reproduction context and skipped,
// never escalated. Only a broken dataset (the one shared output that later
// rows depend on) or cancellation stop a sweep early.
package sweep

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ompsweep/internal/grid"
	"ompsweep/internal/measure"
	"ompsweep/internal/record"
	"ompsweep/internal/toolchain"
)

// Controller sequences one sweep. Builds and runs are strictly sequential:
// the controller waits for each child process to finish before starting the
// next, because overlapping runs contend for cores and corrupt the timings.
type Controller struct {
	Builder toolchain.Builder
	Runner  measure.Runner
	Dataset *record.Dataset

	log *logrus.Entry
}

// New wires a controller. A nil log falls back to the standard logger.
func New(b toolchain.Builder, r measure.Runner, d *record.Dataset, log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{Builder: b, Runner: r, Dataset: d, log: log}
}

// Report summarizes what a sweep attempted and what it recorded.
type Report struct {
	SweepID       string
	GroupsBuilt   int
	GroupsSkipped int
	RunsMeasured  int
	RunsFailed    int
	Failures      []Failure
}

// Sweep executes the plan in enumeration order. It returns a non-nil error
// only for cancellation or a dataset append failure; in both cases the
// report and the dataset reflect everything recorded up to that point.
func (c *Controller) Sweep(ctx context.Context, plan grid.Plan) (Report, error) {
	report := Report{SweepID: uuid.NewString()}
	log := c.log.WithField("sweep_id", report.SweepID)

	log.WithFields(logrus.Fields{
		"groups":     len(plan.Groups),
		"total_runs": plan.TotalRuns(),
		"builder":    c.Builder.Name(),
		"runner":     c.Runner.Name(),
	}).Info("starting sweep")

	for _, group := range plan.Groups {
		if err := ctx.Err(); err != nil {
			log.Warn("sweep cancelled between build groups")
			return report, err
		}
		if err := c.sweepGroup(ctx, log, group, &report); err != nil {
			return report, err
		}
	}

	log.WithFields(logrus.Fields{
		"groups_built":   report.GroupsBuilt,
		"groups_skipped": report.GroupsSkipped,
		"runs_measured":  report.RunsMeasured,
		"runs_failed":    report.RunsFailed,
		"rows":           c.Dataset.Rows(),
	}).Info("sweep complete")
	return report, nil
}

func (c *Controller) sweepGroup(ctx context.Context, log *logrus.Entry, group grid.Group, report *Report) error {
	state := GroupPending
	buildLog := log.WithFields(logrus.Fields{
		"N":    group.Build.MatrixSize,
		"reps": group.Build.Iterations,
	})
	buildLog.Info("building workload")

	product, err := c.Builder.Build(ctx, group.Build)
	if err != nil {
		f := classify(err, FailureBuild, group.Build, nil)
		buildLog.WithFields(logrus.Fields{
			"error":       f.Message,
			"diagnostics": string(f.Raw),
		}).Error("build failed, skipping all runs for this configuration")
		report.Failures = append(report.Failures, f)
		report.GroupsSkipped++
		return transitionGroup(&state, GroupPending, GroupSkipped)
	}
	if err := transitionGroup(&state, GroupPending, GroupBuilt); err != nil {
		return err
	}
	report.GroupsBuilt++
	buildLog.WithField("artifact", product.Path).Info("build succeeded")

	for _, run := range group.Runs {
		if err := ctx.Err(); err != nil {
			log.Warn("sweep cancelled between runs")
			return err
		}
		if err := c.sweepRun(ctx, buildLog, group.Build, product.Path, run, report); err != nil {
			return err
		}
	}

	return transitionGroup(&state, GroupBuilt, GroupDone)
}

func (c *Controller) sweepRun(ctx context.Context, log *logrus.Entry, build grid.BuildConfig, artifact string, run grid.RunConfig, report *Report) error {
	state := RunStarted
	runLog := log.WithFields(logrus.Fields{
		"schedule": run.Schedule.DatasetValue(),
		"chunk":    run.Chunk.String(),
		"threads":  run.Threads,
	})
	runLog.Info("running measurement")

	fail := func(f Failure) error {
		if !allowedRunTransition(state, RunFailed) {
			return fmt.Errorf("invalid run transition: %s -> %s", state, RunFailed)
		}
		state = RunFailed
		report.Failures = append(report.Failures, f)
		report.RunsFailed++
		return nil
	}

	obs, err := c.Runner.Run(ctx, artifact, run)
	if err != nil {
		// Cancellation is not a run failure; it ends the sweep cleanly.
		if ctxErr := ctx.Err(); ctxErr != nil {
			runLog.Warn("run interrupted by cancellation")
			return ctxErr
		}
		f := classify(err, FailureRun, build, &run)
		runLog.WithFields(logrus.Fields{
			"error":  f.Message,
			"stderr": string(f.Raw),
		}).Error("run failed, skipping")
		return fail(f)
	}

	if obs.ExitCode != 0 {
		f := classify(&measure.RunError{
			Config:   run,
			Artifact: artifact,
			Code:     measure.RunCodeNonZeroExit,
			ExitCode: obs.ExitCode,
			Stderr:   obs.Stderr,
		}, FailureRun, build, &run)
		runLog.WithFields(logrus.Fields{
			"exit_code": obs.ExitCode,
			"stderr":    string(obs.Stderr),
		}).Error("workload exited non-zero, skipping")
		return fail(f)
	}

	timings, err := measure.ParseTimings(obs.Stdout, build.Iterations)
	if err != nil {
		f := classify(err, FailureParse, build, &run)
		runLog.WithFields(logrus.Fields{
			"error":      f.Message,
			"raw_stdout": string(f.Raw),
		}).Error("output did not match the timing contract, skipping")
		return fail(f)
	}

	if err := c.Dataset.Append(record.Result{
		Build:        build,
		Run:          run,
		Loop1Seconds: timings.Loop1Seconds,
		Loop2Seconds: timings.Loop2Seconds,
	}); err != nil {
		// The dataset is shared state for the rest of the sweep; if it cannot
		// be appended to, continuing would silently drop measurements.
		return fmt.Errorf("recording result: %w", err)
	}

	if !allowedRunTransition(state, RunMeasured) {
		return fmt.Errorf("invalid run transition: %s -> %s", state, RunMeasured)
	}
	state = RunMeasured
	report.RunsMeasured++
	runLog.WithFields(logrus.Fields{
		"loop1_time_s": timings.Loop1Seconds,
		"loop2_time_s": timings.Loop2Seconds,
	}).Info("measurement recorded")
	return nil
}
