package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeSweepCardinality(t *testing.T) {
	sizes := []int{256, 512, 1024}
	chunks := []int{1, 16, 64}

	plan, err := SizeSweep(sizes, 1000, 8, chunks)
	require.NoError(t, err)
	require.Len(t, plan.Groups, len(sizes))

	// 3 schedules x (3 explicit + 1 default) + 1 baseline = 13 per size.
	want := len(ParallelSchedules)*(len(chunks)+1) + 1
	for _, g := range plan.Groups {
		assert.Len(t, g.Runs, want)
	}
	assert.Equal(t, len(sizes)*want, plan.TotalRuns())
}

func TestSizeSweepNestingOrder(t *testing.T) {
	plan, err := SizeSweep([]int{729}, 100, 4, []int{1, 16})
	require.NoError(t, err)
	require.Len(t, plan.Groups, 1)

	g := plan.Groups[0]
	assert.Equal(t, BuildConfig{MatrixSize: 729, Iterations: 100}, g.Build)

	want := []RunConfig{
		{Schedule: ScheduleStatic, Chunk: ExplicitChunk(1), Threads: 4},
		{Schedule: ScheduleStatic, Chunk: ExplicitChunk(16), Threads: 4},
		{Schedule: ScheduleStatic, Chunk: DefaultChunk(), Threads: 4},
		{Schedule: ScheduleDynamic, Chunk: ExplicitChunk(1), Threads: 4},
		{Schedule: ScheduleDynamic, Chunk: ExplicitChunk(16), Threads: 4},
		{Schedule: ScheduleDynamic, Chunk: DefaultChunk(), Threads: 4},
		{Schedule: ScheduleGuided, Chunk: ExplicitChunk(1), Threads: 4},
		{Schedule: ScheduleGuided, Chunk: ExplicitChunk(16), Threads: 4},
		{Schedule: ScheduleGuided, Chunk: DefaultChunk(), Threads: 4},
		BaselineRun(),
	}
	assert.Equal(t, want, g.Runs)
}

func TestSizeSweepGroupOrderFollowsInput(t *testing.T) {
	sizes := []int{2048, 256, 1440}
	plan, err := SizeSweep(sizes, 10, 2, []int{8})
	require.NoError(t, err)
	for i, g := range plan.Groups {
		assert.Equal(t, sizes[i], g.Build.MatrixSize)
		assert.Equal(t, 10, g.Build.Iterations)
	}
}

func TestSizeSweepRejectsInvalidInput(t *testing.T) {
	_, err := SizeSweep(nil, 100, 4, []int{1})
	assert.Error(t, err)

	_, err = SizeSweep([]int{256}, 100, 4, nil)
	assert.Error(t, err)

	_, err = SizeSweep([]int{256}, 0, 4, []int{1})
	assert.Error(t, err)

	_, err = SizeSweep([]int{-1}, 100, 4, []int{1})
	assert.Error(t, err)

	_, err = SizeSweep([]int{256}, 100, 0, []int{1})
	assert.Error(t, err)

	_, err = SizeSweep([]int{256}, 100, 4, []int{0})
	assert.Error(t, err)
}

func TestRepsSweepShape(t *testing.T) {
	reps := []int{1, 5, 10, 50, 100, 200}
	plan, err := RepsSweep(reps, 2048)
	require.NoError(t, err)
	require.Len(t, plan.Groups, len(reps))

	for i, g := range plan.Groups {
		assert.Equal(t, reps[i], g.Build.Iterations)
		assert.Equal(t, 2048, g.Build.MatrixSize)
		// Only the baseline; no per-schedule variants in the reps sweep.
		require.Len(t, g.Runs, 1)
		assert.Equal(t, BaselineRun(), g.Runs[0])
	}
}

func TestRepsSweepRejectsInvalidInput(t *testing.T) {
	_, err := RepsSweep(nil, 2048)
	assert.Error(t, err)

	_, err = RepsSweep([]int{0}, 2048)
	assert.Error(t, err)

	_, err = RepsSweep([]int{10}, 0)
	assert.Error(t, err)
}

func TestChunkString(t *testing.T) {
	assert.Equal(t, "16", ExplicitChunk(16).String())
	assert.Equal(t, "default", DefaultChunk().String())
	assert.Equal(t, "n/a", NoChunk().String())
}

func TestScheduleDatasetValue(t *testing.T) {
	assert.Equal(t, "baseline", ScheduleNone.DatasetValue())
	assert.Equal(t, "static", ScheduleStatic.DatasetValue())
	assert.Equal(t, "dynamic", ScheduleDynamic.DatasetValue())
	assert.Equal(t, "guided", ScheduleGuided.DatasetValue())
}

func TestScheduleSpec(t *testing.T) {
	spec, set := RunConfig{Schedule: ScheduleDynamic, Chunk: ExplicitChunk(64), Threads: 8}.ScheduleSpec()
	assert.True(t, set)
	assert.Equal(t, "dynamic,64", spec)

	spec, set = RunConfig{Schedule: ScheduleGuided, Chunk: DefaultChunk(), Threads: 8}.ScheduleSpec()
	assert.True(t, set)
	assert.Equal(t, "guided", spec)

	_, set = BaselineRun().ScheduleSpec()
	assert.False(t, set)
}

func TestRunConfigValidate(t *testing.T) {
	assert.NoError(t, BaselineRun().Validate())
	assert.NoError(t, RunConfig{Schedule: ScheduleStatic, Chunk: DefaultChunk(), Threads: 2}.Validate())

	// Chunk/schedule mismatches.
	assert.Error(t, RunConfig{Schedule: ScheduleNone, Chunk: ExplicitChunk(4), Threads: 1}.Validate())
	assert.Error(t, RunConfig{Schedule: ScheduleStatic, Chunk: NoChunk(), Threads: 2}.Validate())
	assert.Error(t, RunConfig{Schedule: ScheduleStatic, Chunk: ExplicitChunk(0), Threads: 2}.Validate())
	assert.Error(t, RunConfig{Schedule: "weird", Chunk: NoChunk(), Threads: 1}.Validate())
	assert.Error(t, RunConfig{Schedule: ScheduleStatic, Chunk: DefaultChunk(), Threads: 0}.Validate())
}

func TestBuildConfigKeyStable(t *testing.T) {
	a := BuildConfig{MatrixSize: 4096, Iterations: 1000}
	b := BuildConfig{MatrixSize: 4096, Iterations: 1000}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "n4096_reps1000", a.Key())

	c := BuildConfig{MatrixSize: 4096, Iterations: 100}
	assert.NotEqual(t, a.Key(), c.Key())
}
