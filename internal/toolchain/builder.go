// Package toolchain turns build-time configurations into executable
// artifacts by shelling out to an external compiler.
//
// The Builder interface is the seam tests use to substitute a stub for the
// real toolchain; production code wires in the GCC adapter.
package toolchain

import (
	"context"
	"fmt"

	"ompsweep/internal/grid"
)

// Builder produces (or reuses) an executable artifact for one build-time
// configuration. Implementations must be idempotent: two calls with equal
// configurations yield functionally equivalent artifacts, and at most one
// actual compile.
type Builder interface {
	// Build compiles the workload for cfg, or returns the previously built
	// product for an equal configuration.
	Build(ctx context.Context, cfg grid.BuildConfig) (BuildProduct, error)

	// Name identifies the concrete toolchain (e.g. "g++").
	Name() string
}

// BuildProduct is a successfully built artifact.
type BuildProduct struct {
	// Config is the build-time configuration baked into the artifact.
	Config grid.BuildConfig

	// Path is the executable's location on disk.
	Path string

	// Reused reports whether an existing artifact was returned instead of
	// compiling again.
	Reused bool
}

// BuildError reports a toolchain rejection of one configuration. It carries
// the full diagnostic stream so the compile can be reproduced by hand.
type BuildError struct {
	Config      grid.BuildConfig
	Command     string
	Diagnostics []byte
	Cause       error
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("build failed for %s: %v", e.Config.Key(), e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }
