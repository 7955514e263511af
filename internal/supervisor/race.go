package supervisor

import (
	"context"
	"errors"

	"github.com/charliek/runcheck/internal/domain"
)

// exitWatcher is the part of a supervised process the exit race looks at
type exitWatcher interface {
	Role() domain.Role
	Exited() <-chan struct{}
	Status() domain.ExitStatus
}

// awaitOutcome blocks until the exit race resolves.
//
// check ending with code 0 is not terminal: onCheckSuccess is called and the
// race continues on run alone. Any other check termination, any run
// termination, or ctx cancellation ends the race. When check and run are
// both observed as exited, check is considered first.
func awaitOutcome(ctx context.Context, check, run exitWatcher, onCheckSuccess func(domain.ExitOutcome)) domain.ExitOutcome {
	checkDone := check.Exited()

	for {
		if checkDone != nil {
			select {
			case <-checkDone:
				status := check.Status()
				if !status.Success() {
					return domain.NewExitOutcome(check.Role(), status)
				}
				onCheckSuccess(domain.NewExitOutcome(check.Role(), status))
				checkDone = nil
				continue
			default:
			}
		}

		select {
		case <-checkDone:
			// handled at the top of the loop
		case <-run.Exited():
			if checkDone != nil {
				select {
				case <-checkDone:
					continue
				default:
				}
			}
			return domain.NewExitOutcome(run.Role(), run.Status())
		case <-ctx.Done():
			return interruptOutcome(ctx)
		}
	}
}

// interruptOutcome attributes a cancelled race to the supervisor itself
func interruptOutcome(ctx context.Context) domain.ExitOutcome {
	var interrupt *domain.InterruptError
	if errors.As(context.Cause(ctx), &interrupt) {
		return domain.NewExitOutcome(domain.RoleSupervisor, domain.SignaledExit(interrupt.Signal))
	}
	return domain.NewExitOutcome(domain.RoleSupervisor, domain.UnknownExit())
}
