package engine

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
)

// invocation describes one process launch.
type invocation struct {
	executable       string
	arguments        string
	workingDirectory string
	env              []string
}

// runProcess starts the invocation, drains both streams concurrently and waits up
// to timeout. On expiry the process tree is killed and reaped before returning.
func (e *Engine) runProcess(
	ctx context.Context,
	logger *slog.Logger,
	inv invocation,
	timeout time.Duration,
	maxOutput int64,
) (*entities.ExecutionOutcome, error) {
	cmd, err := buildCommand(inv)
	if err != nil {
		return nil, err
	}
	cmd.WaitDelay = e.config.waitDelay

	warnExceeded := func(stream string) func(int64) {
		return func(size int64) {
			logger.WarnContext(ctx, "captured output exceeds configured maximum",
				"stream", stream,
				"size", size,
				"max_output_size", maxOutput)
		}
	}
	stdout := newLineAccumulator(maxOutput, warnExceeded("stdout"))
	stderr := newLineAccumulator(maxOutput, warnExceeded("stderr"))
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.DebugContext(ctx, "starting process",
		"executable", inv.executable,
		"arguments", inv.arguments,
		"dir", inv.workingDirectory,
		"timeout", timeout)

	if err := cmd.Start(); err != nil {
		return nil, &domainerrors.LaunchError{Executable: inv.executable, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return exitedOutcome(cmd, inv, err, stdout, stderr)
	case <-timer.C:
		if killErr := killProcessTree(cmd); killErr != nil {
			logger.WarnContext(ctx, "failed to kill timed out process", "error", killErr)
		}
		<-done
		logger.WarnContext(ctx, "command timed out",
			"executable", inv.executable,
			"timeout", timeout)
		return entities.NewTimedOutOutcome(timeout, stdout.String(), stderr.String()), nil
	}
}

func exitedOutcome(cmd *exec.Cmd, inv invocation, err error, stdout, stderr *lineAccumulator) (*entities.ExecutionOutcome, error) {
	if err == nil {
		return entities.NewExitedOutcome(0, stdout.String(), stderr.String()), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return entities.NewExitedOutcome(exitErr.ExitCode(), stdout.String(), stderr.String()), nil
	}

	// The process exited but a descendant kept the pipes open past WaitDelay.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		return entities.NewExitedOutcome(cmd.ProcessState.ExitCode(), stdout.String(), stderr.String()), nil
	}

	return nil, &domainerrors.LaunchError{Executable: inv.executable, Err: err}
}
