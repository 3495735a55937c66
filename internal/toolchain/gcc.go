package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ompsweep/internal/grid"
)

// DefaultCompilerFlags are the optimization and OpenMP flags used when the
// configuration does not override them.
var DefaultCompilerFlags = []string{"-O3", "-fopenmp", "-march=native"}

// GCC compiles the workload source with g++ (or a compatible driver),
// injecting the build-time constants as preprocessor definitions.
//
// GCC remembers every product it has built, keyed by the configuration's
// identity, so repeated Build calls with equal configurations return the
// existing artifact without invoking the compiler again. It is not safe for
// concurrent use; the sweep is strictly sequential.
type GCC struct {
	Compiler string
	Flags    []string
	Source   string
	BinDir   string

	log      *logrus.Entry
	products map[string]BuildProduct
}

// NewGCC returns a GCC builder writing artifacts into binDir. Empty compiler
// or flags fall back to "g++" and DefaultCompilerFlags.
func NewGCC(compiler string, flags []string, source, binDir string, log *logrus.Entry) *GCC {
	if compiler == "" {
		compiler = "g++"
	}
	if len(flags) == 0 {
		flags = DefaultCompilerFlags
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &GCC{
		Compiler: compiler,
		Flags:    flags,
		Source:   source,
		BinDir:   binDir,
		log:      log,
		products: make(map[string]BuildProduct),
	}
}

// Name identifies the toolchain by its compiler command.
func (g *GCC) Name() string { return g.Compiler }

// Build compiles the workload for cfg, reusing an existing product when an
// equal configuration was built before.
func (g *GCC) Build(ctx context.Context, cfg grid.BuildConfig) (BuildProduct, error) {
	if err := cfg.Validate(); err != nil {
		return BuildProduct{}, fmt.Errorf("invalid build config: %w", err)
	}

	key := cfg.Key()
	if p, ok := g.products[key]; ok {
		p.Reused = true
		return p, nil
	}

	outPath := filepath.Join(g.BinDir, "main_"+key)
	args := make([]string, 0, len(g.Flags)+5)
	args = append(args, g.Flags...)
	args = append(args, "-o", outPath, g.Source)
	args = append(args, fmt.Sprintf("-DN=%d", cfg.MatrixSize), fmt.Sprintf("-Dreps=%d", cfg.Iterations))

	cmd := exec.CommandContext(ctx, g.Compiler, args...)
	var diag bytes.Buffer
	cmd.Stdout = &diag
	cmd.Stderr = &diag

	g.log.WithFields(logrus.Fields{
		"N":       cfg.MatrixSize,
		"reps":    cfg.Iterations,
		"command": g.Compiler + " " + strings.Join(args, " "),
	}).Debug("compiling workload")

	if err := cmd.Run(); err != nil {
		return BuildProduct{}, &BuildError{
			Config:      cfg,
			Command:     g.Compiler + " " + strings.Join(args, " "),
			Diagnostics: diag.Bytes(),
			Cause:       err,
		}
	}

	p := BuildProduct{Config: cfg, Path: outPath}
	g.products[key] = p
	return p, nil
}
