package grid

import "fmt"

// Group pairs one build with every run-time variant executed against it.
// The builder is invoked once per group; the runs execute in slice order.
type Group struct {
	Build BuildConfig
	Runs  []RunConfig
}

// Plan is the full, ordered enumeration of a sweep.
type Plan struct {
	Groups []Group
}

// TotalRuns returns the number of run variants across all groups.
func (p Plan) TotalRuns() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Runs)
	}
	return n
}

// SizeSweep enumerates the fixed-repetition/variable-size sweep.
//
// Per matrix size (outer, in the order given): for every parallel schedule,
// one run per explicit chunk size (in the order given) followed by one
// default-chunk run; after all schedules, one trailing single-thread
// baseline. Each group therefore holds exactly
// len(ParallelSchedules)*(len(chunks)+1)+1 runs.
func SizeSweep(sizes []int, iterations, threads int, chunks []int) (Plan, error) {
	if len(sizes) == 0 {
		return Plan{}, fmt.Errorf("size sweep requires at least one matrix size")
	}
	if len(chunks) == 0 {
		return Plan{}, fmt.Errorf("size sweep requires at least one explicit chunk size")
	}
	if threads < 1 {
		return Plan{}, fmt.Errorf("thread count must be at least 1, got %d", threads)
	}

	plan := Plan{Groups: make([]Group, 0, len(sizes))}
	for _, size := range sizes {
		build := BuildConfig{MatrixSize: size, Iterations: iterations}
		if err := build.Validate(); err != nil {
			return Plan{}, fmt.Errorf("size sweep: %w", err)
		}

		runs := make([]RunConfig, 0, len(ParallelSchedules)*(len(chunks)+1)+1)
		for _, sched := range ParallelSchedules {
			for _, chunk := range chunks {
				runs = append(runs, RunConfig{Schedule: sched, Chunk: ExplicitChunk(chunk), Threads: threads})
			}
			runs = append(runs, RunConfig{Schedule: sched, Chunk: DefaultChunk(), Threads: threads})
		}
		runs = append(runs, BaselineRun())

		for _, r := range runs {
			if err := r.Validate(); err != nil {
				return Plan{}, fmt.Errorf("size sweep: %w", err)
			}
		}
		plan.Groups = append(plan.Groups, Group{Build: build, Runs: runs})
	}
	return plan, nil
}

// RepsSweep enumerates the fixed-size/variable-repetition sweep.
//
// One group per iteration count (in the order given), each holding exactly
// one single-thread baseline run. The per-schedule default-chunk variants of
// the size sweep are deliberately absent here; the repetition sweep only
// characterizes the serial baseline.
func RepsSweep(repsValues []int, matrixSize int) (Plan, error) {
	if len(repsValues) == 0 {
		return Plan{}, fmt.Errorf("reps sweep requires at least one iteration count")
	}

	plan := Plan{Groups: make([]Group, 0, len(repsValues))}
	for _, reps := range repsValues {
		build := BuildConfig{MatrixSize: matrixSize, Iterations: reps}
		if err := build.Validate(); err != nil {
			return Plan{}, fmt.Errorf("reps sweep: %w", err)
		}
		plan.Groups = append(plan.Groups, Group{Build: build, Runs: []RunConfig{BaselineRun()}})
	}
	return plan, nil
}
