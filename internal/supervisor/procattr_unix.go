//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// configureCommand puts the shell in its own process group so the entire
// tree can be killed, preventing orphaned grandchildren.
func configureCommand(cmd *exec.Cmd, _ string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
