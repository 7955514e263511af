//go:build linux

package supervisor

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/charliek/runcheck/internal/domain"
	"golang.org/x/sys/unix"
)

// si_code values reported for SIGCHLD
const (
	cldExited = 1
	cldKilled = 2
	cldDumped = 3
)

// waitUnreaped blocks until pid exits and leaves it a zombie. Until it is
// reaped the kernel will not hand its pid out again, so a later group kill
// cannot reach an unrelated process.
func waitUnreaped(pid int) (domain.ExitStatus, bool, error) {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return domain.UnknownExit(), true, fmt.Errorf("waiting for pid %d: %w", pid, err)
	}
	return statusFromSiginfo(&info), true, nil
}

// statusFromSiginfo decodes the SIGCHLD part of info. The union follows the
// three int header fields at word alignment and starts with pid, uid and
// status.
func statusFromSiginfo(info *unix.Siginfo) domain.ExitStatus {
	word := unsafe.Sizeof(uintptr(0))
	header := 3 * unsafe.Sizeof(int32(0))
	offset := (header+word-1)&^(word-1) + 2*unsafe.Sizeof(int32(0))
	status := int(*(*int32)(unsafe.Add(unsafe.Pointer(info), offset)))

	switch info.Code {
	case cldExited:
		return domain.CodedExit(status)
	case cldKilled, cldDumped:
		return domain.SignaledExit(status)
	}
	return domain.UnknownExit()
}
