package updater

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setUpdaterProcAttr configures the updater process to run detached from the parent,
// so it keeps running while the application quits.
func setUpdaterProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}
