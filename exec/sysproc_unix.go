//go:build unix

package exec

import (
	"os/exec"
	"syscall"
	"time"
)

// https://medium.com/@felixge/killing-a-child-process-and-all-of-its-children-in-go-54079af94773
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// cmd.Process.Signal(syscall.SIGTERM) terminates only this PID.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	// SIGKILL follows if the group ignores SIGTERM.
	cmd.WaitDelay = time.Second / 2
}
