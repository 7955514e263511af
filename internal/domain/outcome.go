package domain

import "fmt"

// SignalExitBase is added to a signal number to form an exit code,
// following the shell convention (SIGKILL -> 137).
const SignalExitBase = 128

// StatusUnavailableExitCode is used when neither an exit code nor a signal
// can be extracted from a terminated process.
const StatusUnavailableExitCode = 1

// ExitKind describes how a process terminated
type ExitKind int

const (
	// ExitUnknown means neither code nor signal could be determined
	ExitUnknown ExitKind = iota
	// ExitCoded means the process exited with a numeric code
	ExitCoded
	// ExitSignaled means the process was terminated by a signal
	ExitSignaled
)

// ExitStatus is the observed termination status of a process
type ExitStatus struct {
	Kind   ExitKind
	Code   int
	Signal int
}

// CodedExit returns an ExitStatus for a normal exit with code
func CodedExit(code int) ExitStatus {
	return ExitStatus{Kind: ExitCoded, Code: code}
}

// SignaledExit returns an ExitStatus for a signal termination
func SignaledExit(signal int) ExitStatus {
	return ExitStatus{Kind: ExitSignaled, Signal: signal}
}

// UnknownExit returns an ExitStatus for an unobservable termination
func UnknownExit() ExitStatus {
	return ExitStatus{Kind: ExitUnknown}
}

// Success reports whether the process exited normally with code 0
func (s ExitStatus) Success() bool {
	return s.Kind == ExitCoded && s.Code == 0
}

// ExitCode converts the status into a process exit code
func (s ExitStatus) ExitCode() int {
	switch s.Kind {
	case ExitCoded:
		return s.Code
	case ExitSignaled:
		return SignalExitBase + s.Signal
	default:
		return StatusUnavailableExitCode
	}
}

// String returns a short human description of the status
func (s ExitStatus) String() string {
	switch s.Kind {
	case ExitCoded:
		return fmt.Sprintf("code: %d", s.Code)
	case ExitSignaled:
		return fmt.Sprintf("signal: %d", s.Signal)
	default:
		return "unknown status"
	}
}

// ExitOutcome is the result of the exit race. Code becomes the supervisor's
// own exit code.
type ExitOutcome struct {
	Role   Role
	Status ExitStatus
	Code   int
}

// NewExitOutcome derives the outcome for role from its exit status
func NewExitOutcome(role Role, status ExitStatus) ExitOutcome {
	return ExitOutcome{
		Role:   role,
		Status: status,
		Code:   status.ExitCode(),
	}
}

// StatusLine returns the line reported to the user for this outcome and
// whether it belongs on stderr.
func (o ExitOutcome) StatusLine() (string, bool) {
	if o.Role == RoleSupervisor {
		if o.Status.Kind == ExitSignaled {
			return fmt.Sprintf("runcheck interrupted by signal: %d", o.Status.Signal), true
		}
		return "runcheck cancelled", true
	}
	switch o.Status.Kind {
	case ExitCoded:
		return fmt.Sprintf("%s command exited with code: %d", o.Role.Command(), o.Status.Code), o.Code != 0
	case ExitSignaled:
		return fmt.Sprintf("%s command exited with signal: %d", o.Role.Command(), o.Status.Signal), true
	default:
		return fmt.Sprintf("error attempting to get exit code or signal from %s command", o.Role.Command()), true
	}
}
