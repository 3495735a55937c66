// Package config loads the sweep configuration from a YAML file, applying
// the historical experiment defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Duration is a time.Duration that unmarshals from YAML strings like "90s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("duration %q must not be negative", s)
	}
	*d = Duration(v)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SizeSweepConfig parameterizes the schedule-by-N sweep.
type SizeSweepConfig struct {
	// Sizes are the matrix sizes to build, in sweep order.
	Sizes []int `yaml:"sizes" validate:"min=1,dive,gt=0"`

	// Iterations is the repetition count baked into every build.
	Iterations int `yaml:"iterations" validate:"gte=1"`

	// Chunks are the explicit chunk sizes tried per schedule, in order.
	Chunks []int `yaml:"chunks" validate:"min=1,dive,gt=0"`

	// Output is the dataset file name inside the results directory.
	Output string `yaml:"output" validate:"required"`
}

// RepsSweepConfig parameterizes the baseline repetition sweep.
type RepsSweepConfig struct {
	// Reps are the iteration counts to build, in sweep order.
	Reps []int `yaml:"reps" validate:"min=1,dive,gt=0"`

	// MatrixSize is the fixed N baked into every build.
	MatrixSize int `yaml:"matrix_size" validate:"gte=1"`

	// Output is the dataset file name inside the results directory.
	Output string `yaml:"output" validate:"required"`
}

// Config is the complete sweep configuration.
type Config struct {
	// Source is the workload source file handed to the compiler.
	Source string `yaml:"source" validate:"required"`

	// BinDir and ResultsDir are destructively reset at sweep start.
	BinDir     string `yaml:"bin_dir" validate:"required"`
	ResultsDir string `yaml:"results_dir" validate:"required"`

	// Compiler and CompilerFlags override the toolchain invocation. Empty
	// values fall back to the toolchain package defaults.
	Compiler      string   `yaml:"compiler"`
	CompilerFlags []string `yaml:"compiler_flags"`

	// Threads is the team size for parallel runs (baselines always use 1).
	Threads int `yaml:"threads" validate:"gte=1"`

	// Timeout bounds each measurement run. Zero waits indefinitely.
	Timeout Duration `yaml:"timeout"`

	SizeSweep SizeSweepConfig `yaml:"size_sweep"`
	RepsSweep RepsSweepConfig `yaml:"reps_sweep"`
}

// Default returns the configuration matching the original experiment setup.
func Default() Config {
	return Config{
		Source:     "main.cc",
		BinDir:     "bin",
		ResultsDir: "results",
		Compiler:   "g++",
		Threads:    runtime.NumCPU(),
		SizeSweep: SizeSweepConfig{
			Sizes:      []int{256, 512, 729, 1024, 1440, 2048, 2880, 4096, 6144, 8192},
			Iterations: 1000,
			Chunks:     []int{1, 16, 64},
			Output:     "schedule_by_n_results.csv",
		},
		RepsSweep: RepsSweepConfig{
			Reps:       []int{1, 5, 10, 50, 100, 200},
			MatrixSize: 2048,
			Output:     "reps_baseline_results.csv",
		},
	}
}

// Load reads path and overlays it onto the defaults. An empty path returns
// the defaults unchanged. The result is always validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the structural invariants.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
