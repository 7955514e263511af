// Package supervisor runs the run and check commands side by side, relays
// their output and tears both down as soon as the exit race resolves.
//
// # Security Model
//
// Commands are executed through the host shell ("$SHELL -c" or
// "%COMSPEC% /d /s /c") to support pipes, redirects and variable expansion.
// They have the same trust level as a Makefile target.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charliek/runcheck/internal/domain"
)

// ProcessRunner creates and starts processes
type ProcessRunner interface {
	Start(ctx context.Context, spec domain.CommandSpec) (Process, error)
}

// Process represents a running process
type Process interface {
	PID() int
	// Wait blocks until the process exits. Where the platform allows it the
	// exited process is not reaped, so its pid and process group stay
	// reserved until Release. The error is only set when the status could
	// not be collected at all.
	Wait() (domain.ExitStatus, error)
	// Release reaps the process. Call it only after its tree was killed.
	Release() error
	Stdout() io.ReadCloser
	Stderr() io.ReadCloser
}

// ShellRunner implements ProcessRunner by wrapping commands in the host shell
type ShellRunner struct {
	goos   string
	getenv func(string) string
}

// NewShellRunner creates a ShellRunner for the current platform
func NewShellRunner() *ShellRunner {
	return &ShellRunner{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
	}
}

// Start spawns spec.Command with stdin closed and stdout/stderr on pipes
func (r *ShellRunner) Start(ctx context.Context, spec domain.CommandSpec) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.SpawnError{Role: spec.Role, Err: err}
	}

	shell := spec.Shell
	if shell == "" {
		shell = ResolveShell(r.goos, r.getenv)
	}

	// exec.Command rather than CommandContext: the children are only ever
	// stopped through teardown so their whole tree goes down together.
	cmd := exec.Command(shell, ShellArgs(r.goos, spec.Command)...)
	cmd.Env = spec.Env
	configureCommand(cmd, spec.Command)

	// Manual pipes instead of cmd.StdoutPipe: Wait must not close the read
	// ends while pumps are still draining them.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, &domain.SpawnError{Role: spec.Role, Err: fmt.Errorf("creating stdout pipe: %w", err)}
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return nil, &domain.SpawnError{Role: spec.Role, Err: fmt.Errorf("creating stderr pipe: %w", err)}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		return nil, &domain.SpawnError{Role: spec.Role, Err: fmt.Errorf("starting %s: %w", shell, err)}
	}

	// The child holds its own copies; ours must go so EOF can arrive
	closeAll(stdoutW, stderrW)

	return &shellProcess{
		cmd:    cmd,
		stdout: stdoutR,
		stderr: stderrR,
	}, nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// shellProcess wraps exec.Cmd to implement Process interface
type shellProcess struct {
	cmd    *exec.Cmd
	stdout *os.File
	stderr *os.File

	reapOnce sync.Once
	reapErr  error
}

func (p *shellProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *shellProcess) Wait() (domain.ExitStatus, error) {
	if status, held, err := waitUnreaped(p.PID()); held {
		return status, err
	}

	// No way to wait without reaping here
	err := p.Release()
	return statusFromState(p.cmd.ProcessState), err
}

func (p *shellProcess) Release() error {
	p.reapOnce.Do(func() {
		err := p.cmd.Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			p.reapErr = err
		}
	})
	return p.reapErr
}

func (p *shellProcess) Stdout() io.ReadCloser {
	return p.stdout
}

func (p *shellProcess) Stderr() io.ReadCloser {
	return p.stderr
}
