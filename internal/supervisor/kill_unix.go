//go:build !windows

package supervisor

import (
	"errors"

	"golang.org/x/sys/unix"
)

// groupKiller sends SIGKILL to the process group led by the shell
type groupKiller struct{}

// NewTreeKiller returns the process tree killer for this platform
func NewTreeKiller() TreeKiller {
	return groupKiller{}
}

// CheckTreeKill verifies the platform kill mechanism is usable
func CheckTreeKill() error {
	return nil
}

// KillTree only ever signals the group whose id is pid. Setpgid made every
// shell a group leader and the unreaped shell keeps that id reserved, so a
// missing group means the tree is already gone.
func (groupKiller) KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}

	err := unix.Kill(-pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
