package supervisor

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charliek/runcheck/internal/domain"
)

// fakeProcess is a Process driven by the test through its pipe writers and
// finish. Killing it finishes it with SIGKILL.
type fakeProcess struct {
	pid      int
	stdoutR  *io.PipeReader
	stdoutW  *io.PipeWriter
	stderrR  *io.PipeReader
	stderrW  *io.PipeWriter
	exit     chan domain.ExitStatus
	once     sync.Once
	holdOpen bool // keep stdout open after finish, like a stray grandchild

	mu       sync.Mutex
	killed   bool
	released bool
	// releasedBeforeKill is set when the pid was given up while its tree
	// could still be alive
	releasedBeforeKill bool
}

func newFakeProcess(pid int) *fakeProcess {
	p := &fakeProcess{pid: pid, exit: make(chan domain.ExitStatus, 1)}
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()
	return p
}

func (p *fakeProcess) PID() int { return p.pid }

func (p *fakeProcess) Wait() (domain.ExitStatus, error) {
	status := <-p.exit
	p.exit <- status
	return status, nil
}

func (p *fakeProcess) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.killed {
		p.releasedBeforeKill = true
	}
	p.released = true
	return nil
}

func (p *fakeProcess) markKilled() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
}

func (p *fakeProcess) releaseState() (released, beforeKill bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released, p.releasedBeforeKill
}

func (p *fakeProcess) Stdout() io.ReadCloser { return p.stdoutR }
func (p *fakeProcess) Stderr() io.ReadCloser { return p.stderrR }

func (p *fakeProcess) println(stream domain.Stream, line string) {
	w := p.stdoutW
	if stream == domain.StreamStderr {
		w = p.stderrW
	}
	_, _ = io.WriteString(w, line+"\n")
}

func (p *fakeProcess) finish(status domain.ExitStatus) {
	p.once.Do(func() {
		if !p.holdOpen {
			_ = p.stdoutW.Close()
		}
		_ = p.stderrW.Close()
		p.exit <- status
	})
}

// fakeRunner hands out prepared processes by role
type fakeRunner struct {
	procs    map[domain.Role]*fakeProcess
	failRole domain.Role
	started  []domain.CommandSpec
}

func (r *fakeRunner) Start(_ context.Context, spec domain.CommandSpec) (Process, error) {
	r.started = append(r.started, spec)
	if spec.Role == r.failRole {
		return nil, &domain.SpawnError{Role: spec.Role, Err: errors.New("no such shell")}
	}
	return r.procs[spec.Role], nil
}

// fakeKiller finishes fake processes with SIGKILL and records the pids
type fakeKiller struct {
	mu     sync.Mutex
	procs  map[int]*fakeProcess
	killed []int
	err    error
}

func (k *fakeKiller) KillTree(pid int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return k.err
	}
	k.killed = append(k.killed, pid)
	if p, ok := k.procs[pid]; ok {
		p.markKilled()
		p.finish(domain.SignaledExit(9))
	}
	return nil
}

func (k *fakeKiller) Killed() []int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]int(nil), k.killed...)
}

// fakeWatcher is an exitWatcher for race tests
type fakeWatcher struct {
	role   domain.Role
	exited chan struct{}
	status domain.ExitStatus
}

func newFakeWatcher(role domain.Role) *fakeWatcher {
	return &fakeWatcher{role: role, exited: make(chan struct{})}
}

func (w *fakeWatcher) Role() domain.Role         { return w.role }
func (w *fakeWatcher) Exited() <-chan struct{}   { return w.exited }
func (w *fakeWatcher) Status() domain.ExitStatus { return w.status }
func (w *fakeWatcher) exit(status domain.ExitStatus) {
	w.status = status
	close(w.exited)
}
