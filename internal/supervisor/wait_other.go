//go:build !linux && !windows

package supervisor

import "github.com/charliek/runcheck/internal/domain"

// waitUnreaped is unavailable here; Wait reaps as soon as the shell exits.
// TODO: use wait6 with WNOWAIT on FreeBSD and NetBSD once x/sys/unix exposes it.
func waitUnreaped(int) (domain.ExitStatus, bool, error) {
	return domain.UnknownExit(), false, nil
}
