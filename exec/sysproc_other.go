//go:build !unix

package exec

import (
	"os/exec"
	"time"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = time.Second / 2
}
