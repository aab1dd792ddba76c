//go:build !windows

package engine

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func buildCommand(inv invocation) (*exec.Cmd, error) {
	args, err := splitArguments(inv.arguments)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G204: launching the configured toolchain is the purpose of this package
	cmd := exec.Command(inv.executable, args...)
	cmd.Dir = inv.workingDirectory
	cmd.Env = inv.env
	// Own process group so the deadline can stop descendants too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd, nil
}

func killProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	if killErr := cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
		return killErr
	}
	return nil
}
