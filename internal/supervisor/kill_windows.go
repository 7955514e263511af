//go:build windows

package supervisor

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/charliek/runcheck/internal/constants"
)

// taskkillNotFound is the taskkill exit code for "process not found"
const taskkillNotFound = 128

// taskkillKiller shells out to taskkill /F /T, the only way to reach
// grandchildren started by cmd.exe.
type taskkillKiller struct{}

// NewTreeKiller returns the process tree killer for this platform
func NewTreeKiller() TreeKiller {
	return taskkillKiller{}
}

// CheckTreeKill verifies taskkill is on PATH
func CheckTreeKill() error {
	if _, err := exec.LookPath(constants.TaskkillCommand); err != nil {
		return fmt.Errorf("%s command must be available: %w", constants.TaskkillCommand, err)
	}
	return nil
}

func (taskkillKiller) KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}

	err := exec.Command(constants.TaskkillCommand, "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == taskkillNotFound {
		return nil
	}
	return err
}
