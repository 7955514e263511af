//go:build windows

package supervisor

import (
	"fmt"

	"github.com/charliek/runcheck/internal/domain"
	"golang.org/x/sys/windows"
)

// waitUnreaped waits on a second handle to pid. The exec.Cmd keeps its own
// handle open until Release, which keeps the pid from being reused before
// taskkill runs.
func waitUnreaped(pid int) (domain.ExitStatus, bool, error) {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE|windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return domain.UnknownExit(), false, nil
	}
	defer windows.CloseHandle(h)

	if _, err := windows.WaitForSingleObject(h, windows.INFINITE); err != nil {
		return domain.UnknownExit(), true, fmt.Errorf("waiting for pid %d: %w", pid, err)
	}

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return domain.UnknownExit(), true, fmt.Errorf("reading exit code of pid %d: %w", pid, err)
	}
	return domain.CodedExit(int(code)), true, nil
}
