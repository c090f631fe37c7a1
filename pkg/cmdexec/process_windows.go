//go:build windows

package cmdexec

import (
	"os/exec"
)

// setProcGroup does nothing on windows; CommandContext terminates the child.
func setProcGroup(cmd *exec.Cmd) {}

// killProcGroup kills the child process.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
