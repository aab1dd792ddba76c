//go:build windows

package engine

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func buildCommand(inv invocation) (*exec.Cmd, error) {
	//nolint:gosec // G204: launching the configured toolchain is the purpose of this package
	cmd := exec.Command(inv.executable)
	cmd.Dir = inv.workingDirectory
	cmd.Env = inv.env
	// The command string is handed to the process verbatim, as Windows tools
	// parse their own command line.
	cmdLine := windows.EscapeArg(inv.executable)
	if inv.arguments != "" {
		cmdLine += " " + inv.arguments
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       cmdLine,
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW | windows.CREATE_NEW_PROCESS_GROUP,
	}
	return cmd, nil
}

func killProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
