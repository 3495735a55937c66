package sweep

import (
	"errors"

	"ompsweep/internal/grid"
	"ompsweep/internal/measure"
	"ompsweep/internal/toolchain"
)

// FailureClass is the frozen three-class taxonomy. Every class is non-fatal:
// a build failure skips its whole group, a run or parse failure skips one
// run, and the sweep always continues.
type FailureClass string

const (
	FailureBuild FailureClass = "BuildFailure"
	FailureRun   FailureClass = "RunFailure"
	FailureParse FailureClass = "ParseFailure"
)

// Failure is one recorded skip, carrying enough context to reproduce it by
// hand: the exact configuration and the raw diagnostic or output text.
type Failure struct {
	Class FailureClass
	Build grid.BuildConfig

	// Run is nil for build failures, which have no run variant yet.
	Run *grid.RunConfig

	Message string

	// Raw is the compiler diagnostics, the child's stderr, or the full
	// unparseable stdout, depending on the class.
	Raw []byte
}

// classify maps a stage error onto the taxonomy. Unknown errors default to
// the class of the stage that raised them, which the caller supplies.
func classify(err error, fallback FailureClass, build grid.BuildConfig, run *grid.RunConfig) Failure {
	var be *toolchain.BuildError
	if errors.As(err, &be) {
		return Failure{
			Class:   FailureBuild,
			Build:   be.Config,
			Message: be.Error(),
			Raw:     be.Diagnostics,
		}
	}

	var re *measure.RunError
	if errors.As(err, &re) {
		cfg := re.Config
		return Failure{
			Class:   FailureRun,
			Build:   build,
			Run:     &cfg,
			Message: re.Error(),
			Raw:     re.Stderr,
		}
	}

	var pe *measure.ParseError
	if errors.As(err, &pe) {
		return Failure{
			Class:   FailureParse,
			Build:   build,
			Run:     run,
			Message: pe.Error(),
			Raw:     pe.Raw,
		}
	}

	return Failure{
		Class:   fallback,
		Build:   build,
		Run:     run,
		Message: err.Error(),
	}
}
