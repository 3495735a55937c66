package grid

import (
	"fmt"
	"strconv"
)

// Schedule is the work-distribution policy of the workload's parallel loops.
//
// ScheduleNone means the run sets no schedule at all: the runtime falls back
// to its own default policy. It is used for the single-thread baseline.
type Schedule string

const (
	ScheduleNone    Schedule = "none"
	ScheduleStatic  Schedule = "static"
	ScheduleDynamic Schedule = "dynamic"
	ScheduleGuided  Schedule = "guided"
)

// ParallelSchedules lists the explicit schedules in sweep order.
var ParallelSchedules = []Schedule{ScheduleStatic, ScheduleDynamic, ScheduleGuided}

// DatasetValue returns the value recorded in the dataset's schedule column.
// Baseline runs are labeled "baseline" so downstream filters can select them
// without knowing about the enum.
func (s Schedule) DatasetValue() string {
	if s == ScheduleNone {
		return "baseline"
	}
	return string(s)
}

func (s Schedule) valid() bool {
	switch s {
	case ScheduleNone, ScheduleStatic, ScheduleDynamic, ScheduleGuided:
		return true
	default:
		return false
	}
}

// ChunkKind discriminates the three chunk-size states.
type ChunkKind int

const (
	// ChunkNotApplicable accompanies ScheduleNone; there is no chunk to pick.
	ChunkNotApplicable ChunkKind = iota

	// ChunkRuntimeDefault means a schedule was chosen but the chunk is left
	// to the runtime. Distinct from any explicit numeric chunk.
	ChunkRuntimeDefault

	// ChunkExplicit carries a positive chunk size.
	ChunkExplicit
)

// Chunk is the granularity of work assigned per scheduling decision.
type Chunk struct {
	Kind ChunkKind `json:"kind" yaml:"kind"`

	// Size is meaningful only when Kind is ChunkExplicit.
	Size int `json:"size,omitempty" yaml:"size,omitempty"`
}

// ExplicitChunk returns a chunk with a concrete size.
func ExplicitChunk(size int) Chunk { return Chunk{Kind: ChunkExplicit, Size: size} }

// DefaultChunk returns the runtime-chooses-its-own-chunk sentinel.
func DefaultChunk() Chunk { return Chunk{Kind: ChunkRuntimeDefault} }

// NoChunk returns the not-applicable sentinel used with ScheduleNone.
func NoChunk() Chunk { return Chunk{Kind: ChunkNotApplicable} }

// String renders the chunk exactly as it appears in the dataset:
// the number, "default", or "n/a".
func (c Chunk) String() string {
	switch c.Kind {
	case ChunkExplicit:
		return strconv.Itoa(c.Size)
	case ChunkRuntimeDefault:
		return "default"
	default:
		return "n/a"
	}
}

// BuildConfig identifies one compiled artifact. Both fields are baked into
// the executable as build-time constants; changing either requires a rebuild.
type BuildConfig struct {
	// MatrixSize is the square matrix dimension N.
	MatrixSize int `json:"matrix_size" yaml:"matrix_size"`

	// Iterations is the number of repetitions each timed loop performs.
	Iterations int `json:"iterations" yaml:"iterations"`
}

// Validate checks the build-time invariants.
func (b BuildConfig) Validate() error {
	if b.MatrixSize <= 0 {
		return fmt.Errorf("matrix size must be positive, got %d", b.MatrixSize)
	}
	if b.Iterations <= 0 {
		return fmt.Errorf("iteration count must be positive, got %d", b.Iterations)
	}
	return nil
}

// Key returns a stable identifier suitable for artifact file names and
// build-reuse lookups. Equal configs always produce equal keys.
func (b BuildConfig) Key() string {
	return fmt.Sprintf("n%d_reps%d", b.MatrixSize, b.Iterations)
}

// RunConfig is one run-time environment for a built artifact.
type RunConfig struct {
	Schedule Schedule `json:"schedule" yaml:"schedule"`
	Chunk    Chunk    `json:"chunk" yaml:"chunk"`
	Threads  int      `json:"threads" yaml:"threads"`
}

// BaselineRun is the single-thread reference run: no explicit schedule, so
// the runtime applies its own default policy.
func BaselineRun() RunConfig {
	return RunConfig{Schedule: ScheduleNone, Chunk: NoChunk(), Threads: 1}
}

// Validate checks the run-time invariants, including the schedule/chunk
// pairing rules.
func (r RunConfig) Validate() error {
	if !r.Schedule.valid() {
		return fmt.Errorf("unknown schedule %q", string(r.Schedule))
	}
	if r.Threads < 1 {
		return fmt.Errorf("thread count must be at least 1, got %d", r.Threads)
	}
	switch r.Schedule {
	case ScheduleNone:
		if r.Chunk.Kind != ChunkNotApplicable {
			return fmt.Errorf("schedule none requires chunk n/a, got %s", r.Chunk)
		}
	default:
		switch r.Chunk.Kind {
		case ChunkExplicit:
			if r.Chunk.Size <= 0 {
				return fmt.Errorf("explicit chunk size must be positive, got %d", r.Chunk.Size)
			}
		case ChunkRuntimeDefault:
			// Runtime picks the chunk.
		default:
			return fmt.Errorf("schedule %s requires an explicit or default chunk", r.Schedule)
		}
	}
	return nil
}

// ScheduleSpec returns the schedule specification string for the child
// environment and whether it should be set at all.
//
//	explicit chunk:  "static,16", true
//	default chunk:   "static", true
//	schedule none:   "", false (the variable must be absent)
func (r RunConfig) ScheduleSpec() (string, bool) {
	if r.Schedule == ScheduleNone {
		return "", false
	}
	if r.Chunk.Kind == ChunkExplicit {
		return fmt.Sprintf("%s,%d", r.Schedule, r.Chunk.Size), true
	}
	return string(r.Schedule), true
}
