package measure

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"ompsweep/internal/grid"
)

// Exec runs artifacts as child processes with a fully controlled
// environment.
//
// Environment isolation is an allowlist: the child starts from an empty
// environment and receives only the variables derived from the run
// configuration. Host variables never leak through, so a prior run's
// schedule setting can not contaminate the next one.
type Exec struct {
	// Timeout, when positive, bounds each child's wall-clock time. A child
	// that exceeds it is killed (whole process group) and the run is
	// reported as a timeout RunError.
	Timeout time.Duration
}

// NewExec returns an Exec runner. A zero timeout means wait indefinitely.
func NewExec(timeout time.Duration) *Exec {
	return &Exec{Timeout: timeout}
}

// Name identifies this runner.
func (e *Exec) Name() string { return "exec" }

// Run executes the artifact and blocks until it exits. The run environment
// encodes the configuration:
//
//	OMP_NUM_THREADS=<threads>   always
//	OMP_DYNAMIC=FALSE           always, so the runtime cannot shrink the team
//	OMP_SCHEDULE=<spec>         only when the configuration names a schedule
func (e *Exec) Run(ctx context.Context, artifact string, cfg grid.RunConfig) (Observation, error) {
	if err := cfg.Validate(); err != nil {
		return Observation{}, fmt.Errorf("invalid run config: %w", err)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.Command(artifact)
	cmd.Env = runEnv(cfg)

	// Own process group so a timeout kill takes the whole tree with it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Observation{}, &RunError{
			Config:   cfg,
			Artifact: artifact,
			Code:     RunCodeStartFailed,
			Cause:    err,
		}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return Observation{}, &RunError{
			Config:   cfg,
			Artifact: artifact,
			Code:     RunCodeTimeout,
			Stderr:   stderr.Bytes(),
			Cause:    ctx.Err(),
		}
	case waitErr = <-done:
	}

	exitCode := 0
	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return Observation{}, &RunError{
				Config:   cfg,
				Artifact: artifact,
				Code:     RunCodeStartFailed,
				Stderr:   stderr.Bytes(),
				Cause:    waitErr,
			}
		}
		exitCode = exitErr.ExitCode()
	}

	return Observation{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
	}, nil
}

// runEnv translates a run configuration into the child's complete
// environment. The schedule variable is omitted entirely for baseline runs
// so the runtime falls back to its own default policy.
func runEnv(cfg grid.RunConfig) []string {
	env := []string{
		fmt.Sprintf("OMP_NUM_THREADS=%d", cfg.Threads),
		"OMP_DYNAMIC=FALSE",
	}
	if spec, set := cfg.ScheduleSpec(); set {
		env = append(env, "OMP_SCHEDULE="+spec)
	}
	return env
}
