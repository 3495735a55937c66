// Package measure executes a built artifact under one run-time environment
// and extracts timing measurements from its output.
//
// Timing comparisons are only meaningful when runs do not contend for the
// machine, so the exec adapter blocks until the child exits: no two
// measurement runs ever overlap.
package measure

import (
	"context"
	"fmt"

	"ompsweep/internal/grid"
)

// Observation is the complete captured outcome of one measurement run.
type Observation struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes an artifact under one run-time configuration.
//
// A non-nil error means the run could not be observed at all (start failure,
// timeout, cancellation). A child that ran to completion with a non-zero
// status is reported through Observation.ExitCode with a nil error; the
// sweep controller owns that failure decision.
type Runner interface {
	Run(ctx context.Context, artifact string, cfg grid.RunConfig) (Observation, error)

	// Name identifies the concrete runner.
	Name() string
}

// Run error codes.
const (
	RunCodeTimeout     = "Timeout"
	RunCodeStartFailed = "StartFailed"
	RunCodeNonZeroExit = "NonZeroExit"
)

// RunError reports a run that produced no usable measurement: the child
// timed out, could not be started, or exited non-zero. Stderr carries
// whatever diagnostics the child managed to emit.
type RunError struct {
	Config   grid.RunConfig
	Artifact string
	Code     string
	ExitCode int
	Stderr   []byte
	Cause    error
}

func (e *RunError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == RunCodeNonZeroExit {
		return fmt.Sprintf("run failed (%s): %s exited with status %d", e.Code, e.Artifact, e.ExitCode)
	}
	return fmt.Sprintf("run failed (%s): %s: %v", e.Code, e.Artifact, e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }
