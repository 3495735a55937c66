package sweep

import (
	"fmt"
	"os"
)

// ResetDirs destructively resets the sweep's output directories: each one is
// removed and recreated empty. Called once at sweep start, before any
// configuration is attempted; an error here is unrecoverable and must abort
// the sweep.
func ResetDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			return fmt.Errorf("output directory path is empty")
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
