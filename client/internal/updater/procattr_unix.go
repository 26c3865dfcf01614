//go:build !windows

package updater

import (
	"os/exec"
	"syscall"
)

// setUpdaterProcAttr starts the updater in a new session,
// making it independent of the parent process.
func setUpdaterProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
