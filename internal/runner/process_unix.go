//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the child in its own process group so cancellation
// also stops anything it spawned.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
