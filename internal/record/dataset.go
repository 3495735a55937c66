// Package record persists sweep measurements as an append-only CSV dataset.
//
// The dataset is the contract with the downstream plotting stage: a fixed
// header row declared once at sweep start, then one complete row per
// successful run, in sweep order. Every append is flushed and synced before
// the sweep proceeds, so an interrupted sweep leaves a prefix of fully
// parseable rows and nothing else.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ompsweep/internal/grid"
	"ompsweep/internal/measure"
)

// Result is one successful measurement: the configuration pair plus the two
// parsed durations. Derived averages are computed at serialization time,
// never carried as fields.
type Result struct {
	Build grid.BuildConfig
	Run   grid.RunConfig

	Loop1Seconds float64
	Loop2Seconds float64
}

// Schema fixes the dataset's column set and how a result maps onto it.
type Schema struct {
	Columns []string
	Row     func(Result) []string
}

// SizeSweepSchema is the schedule-by-N dataset layout.
var SizeSweepSchema = Schema{
	Columns: []string{"N", "schedule", "chunk_size", "threads", "reps", "loop1_time_s", "loop2_time_s"},
	Row: func(r Result) []string {
		return []string{
			strconv.Itoa(r.Build.MatrixSize),
			r.Run.Schedule.DatasetValue(),
			r.Run.Chunk.String(),
			strconv.Itoa(r.Run.Threads),
			strconv.Itoa(r.Build.Iterations),
			formatSeconds(r.Loop1Seconds),
			formatSeconds(r.Loop2Seconds),
		}
	},
}

// RepsSweepSchema is the baseline repetition-sweep layout. It carries the
// per-iteration averages as extra columns; both are recomputed from the base
// measurements here and nowhere else.
var RepsSweepSchema = Schema{
	Columns: []string{"reps", "N", "schedule", "chunk_size", "threads", "loop1_time_s", "loop2_time_s", "loop1_avg_time_ms", "loop2_avg_time_ms"},
	Row: func(r Result) []string {
		return []string{
			strconv.Itoa(r.Build.Iterations),
			strconv.Itoa(r.Build.MatrixSize),
			r.Run.Schedule.DatasetValue(),
			r.Run.Chunk.String(),
			strconv.Itoa(r.Run.Threads),
			formatSeconds(r.Loop1Seconds),
			formatSeconds(r.Loop2Seconds),
			formatSeconds(measure.AvgMillis(r.Loop1Seconds, r.Build.Iterations)),
			formatSeconds(measure.AvgMillis(r.Loop2Seconds, r.Build.Iterations)),
		}
	},
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dataset is an open, append-only CSV file. Not safe for concurrent use;
// the sweep appends sequentially.
type Dataset struct {
	path   string
	schema Schema
	file   *os.File
	w      *csv.Writer
	rows   int
}

// Create truncates (or creates) the dataset file, writes the header row, and
// syncs it. Failure here is unrecoverable for the sweep: no measurement may
// start without a durable place to record it.
func Create(path string, schema Schema) (*Dataset, error) {
	if len(schema.Columns) == 0 || schema.Row == nil {
		return nil, fmt.Errorf("dataset schema is incomplete")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating dataset: %w", err)
	}

	d := &Dataset{path: path, schema: schema, file: f, w: csv.NewWriter(f)}
	if err := d.commit(schema.Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing dataset header: %w", err)
	}
	return d, nil
}

// Append records one successful result as a complete row. The row is flushed
// and synced before Append returns; a crash afterwards cannot lose or
// truncate it.
func (d *Dataset) Append(r Result) error {
	row := d.schema.Row(r)
	if len(row) != len(d.schema.Columns) {
		return fmt.Errorf("row has %d fields, schema has %d columns", len(row), len(d.schema.Columns))
	}
	if err := d.commit(row); err != nil {
		return fmt.Errorf("appending dataset row: %w", err)
	}
	d.rows++
	return nil
}

func (d *Dataset) commit(record []string) error {
	if err := d.w.Write(record); err != nil {
		return err
	}
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		return err
	}
	return d.file.Sync()
}

// Rows returns the number of data rows appended so far (header excluded).
func (d *Dataset) Rows() int { return d.rows }

// Path returns the dataset's location on disk.
func (d *Dataset) Path() string { return d.path }

// Close releases the underlying file. The dataset is already durable; Close
// only cleans up the descriptor.
func (d *Dataset) Close() error {
	return d.file.Close()
}
