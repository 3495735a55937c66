package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ompsweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "main.cc", cfg.Source)
	assert.Equal(t, []int{1, 16, 64}, cfg.SizeSweep.Chunks)
	assert.Equal(t, 1000, cfg.SizeSweep.Iterations)
	assert.Equal(t, 2048, cfg.RepsSweep.MatrixSize)
	assert.GreaterOrEqual(t, cfg.Threads, 1)
	assert.Equal(t, time.Duration(0), cfg.Timeout.Std())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
source: workload/main.cc
threads: 16
timeout: 90s
size_sweep:
  sizes: [128, 256]
  iterations: 50
  chunks: [4]
  output: sizes.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "workload/main.cc", cfg.Source)
	assert.Equal(t, 16, cfg.Threads)
	assert.Equal(t, 90*time.Second, cfg.Timeout.Std())
	assert.Equal(t, []int{128, 256}, cfg.SizeSweep.Sizes)
	assert.Equal(t, []int{4}, cfg.SizeSweep.Chunks)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().RepsSweep, cfg.RepsSweep)
	assert.Equal(t, "bin", cfg.BinDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero threads":    "threads: 0\n",
		"empty sizes":     "size_sweep: {sizes: [], iterations: 10, chunks: [1], output: s.csv}\n",
		"negative size":   "size_sweep: {sizes: [-5], iterations: 10, chunks: [1], output: s.csv}\n",
		"zero chunk":      "size_sweep: {sizes: [256], iterations: 10, chunks: [0], output: s.csv}\n",
		"bad duration":    "timeout: soon\n",
		"negative window": "timeout: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
