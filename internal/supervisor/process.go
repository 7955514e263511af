package supervisor

import (
	"golang.org/x/sync/errgroup"

	"github.com/charliek/runcheck/internal/domain"
	"go.uber.org/zap"
)

// SupervisedProcess tracks one spawned command, its two output pumps and
// its termination status.
type SupervisedProcess struct {
	role  domain.Role
	proc  Process
	pumps errgroup.Group

	// exited is closed once status and waitErr are set
	exited  chan struct{}
	status  domain.ExitStatus
	waitErr error
}

// superviseProcess starts the pumps and the waiter for a freshly spawned
// process. Output goes to the channel matching each stream.
func superviseProcess(role domain.Role, proc Process, stdout, stderr chan<- domain.LineMessage, log *zap.SugaredLogger) *SupervisedProcess {
	p := &SupervisedProcess{
		role:   role,
		proc:   proc,
		exited: make(chan struct{}),
	}

	p.pumps.Go(func() error {
		return pump(role, domain.StreamStdout, proc.Stdout(), stdout, log)
	})
	p.pumps.Go(func() error {
		return pump(role, domain.StreamStderr, proc.Stderr(), stderr, log)
	})

	go func() {
		p.status, p.waitErr = proc.Wait()
		close(p.exited)
	}()

	return p
}

// Role returns the role label
func (p *SupervisedProcess) Role() domain.Role {
	return p.role
}

// PID returns the OS process id of the shell
func (p *SupervisedProcess) PID() int {
	return p.proc.PID()
}

// Exited is closed when the process has terminated. It may not be reaped
// yet; teardown does that after killing the tree.
func (p *SupervisedProcess) Exited() <-chan struct{} {
	return p.exited
}

// Status returns the exit status. Only valid after Exited is closed.
func (p *SupervisedProcess) Status() domain.ExitStatus {
	return p.status
}

// WaitErr returns the error from collecting the exit status, if any.
// Only valid after Exited is closed.
func (p *SupervisedProcess) WaitErr() error {
	return p.waitErr
}
