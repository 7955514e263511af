package supervisor

import (
	"os"
	"syscall"

	"github.com/charliek/runcheck/internal/domain"
)

// waitSignaler is satisfied by syscall.WaitStatus on every platform; on
// Windows Signaled always reports false.
type waitSignaler interface {
	Signaled() bool
	Signal() syscall.Signal
}

// statusFromState extracts the exit code or terminating signal
func statusFromState(ps *os.ProcessState) domain.ExitStatus {
	if ps == nil {
		return domain.UnknownExit()
	}
	if ps.Exited() {
		return domain.CodedExit(ps.ExitCode())
	}
	if ws, ok := ps.Sys().(waitSignaler); ok && ws.Signaled() {
		return domain.SignaledExit(int(ws.Signal()))
	}
	return domain.UnknownExit()
}
