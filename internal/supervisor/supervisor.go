package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charliek/runcheck/internal/constants"
	"github.com/charliek/runcheck/internal/domain"
	"github.com/charliek/runcheck/internal/logs"
	"go.uber.org/zap"
)

// SupervisorConfig holds configuration for the supervisor
type SupervisorConfig struct {
	Run   domain.CommandSpec
	Check domain.CommandSpec

	// DrainTimeout bounds how long teardown waits for killed commands to be
	// reaped and for their output readers to reach EOF.
	DrainTimeout time.Duration
}

// Supervisor runs the run and check commands and resolves their exit race.
// A Supervisor performs a single Run.
type Supervisor struct {
	config  SupervisorConfig
	runner  ProcessRunner
	killer  TreeKiller
	printer *logs.Printer
	log     *zap.SugaredLogger
}

// New creates a new supervisor. Nil runner and killer select the platform
// implementations.
func New(config SupervisorConfig, runner ProcessRunner, killer TreeKiller, printer *logs.Printer, log *zap.SugaredLogger) *Supervisor {
	if runner == nil {
		runner = NewShellRunner()
	}
	if killer == nil {
		killer = NewTreeKiller()
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = constants.DefaultDrainTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Supervisor{
		config:  config,
		runner:  runner,
		killer:  killer,
		printer: printer,
		log:     log,
	}
}

// session holds everything one Run owns
type session struct {
	stdout chan domain.LineMessage
	stderr chan domain.LineMessage
	mux    *logs.Multiplexer
	procs  []*SupervisedProcess
}

// Run spawns both commands, waits for the exit race and tears everything
// down. The returned outcome carries the supervisor's exit code. An error
// means a fatal condition (spawn, kill or join failure); teardown has still
// been attempted.
func (s *Supervisor) Run(ctx context.Context) (outcome domain.ExitOutcome, err error) {
	sess := &session{
		stdout: make(chan domain.LineMessage, constants.LineChannelBuffer),
		stderr: make(chan domain.LineMessage, constants.LineChannelBuffer),
	}
	sess.mux = logs.NewMultiplexer(s.printer, sess.stdout, sess.stderr, s.log)
	sess.mux.Start()

	// Teardown runs exactly once on every path
	defer func() {
		if terr := s.teardown(sess); terr != nil {
			err = errors.Join(err, terr)
		}
	}()

	run, err := s.spawn(ctx, sess, s.config.Run)
	if err != nil {
		return domain.ExitOutcome{}, err
	}
	check, err := s.spawn(ctx, sess, s.config.Check)
	if err != nil {
		return domain.ExitOutcome{}, err
	}

	outcome = awaitOutcome(ctx, check, run, func(o domain.ExitOutcome) {
		s.report(sess, o)
	})
	s.report(sess, outcome)

	return outcome, nil
}

func (s *Supervisor) spawn(ctx context.Context, sess *session, spec domain.CommandSpec) (*SupervisedProcess, error) {
	proc, err := s.runner.Start(ctx, spec)
	if err != nil {
		return nil, err
	}

	p := superviseProcess(spec.Role, proc, sess.stdout, sess.stderr, s.log)
	sess.procs = append(sess.procs, p)

	s.log.Debugw("spawned command", "role", spec.Role, "pid", p.PID(), "command", spec.Command)
	return p, nil
}

// report queues the status line for o behind any output already relayed
func (s *Supervisor) report(sess *session, o domain.ExitOutcome) {
	if o.Status.Kind == domain.ExitUnknown && o.Role != domain.RoleSupervisor {
		s.log.Errorw("exit status unavailable, using sentinel exit code",
			"role", o.Role, "code", o.Code, "error", domain.ErrStatusUnavailable)
	}

	line, failed := o.StatusLine()
	stream, ch := domain.StreamStdout, sess.stdout
	if failed {
		stream, ch = domain.StreamStderr, sess.stderr
	}
	ch <- domain.LineMessage{Role: domain.RoleSupervisor, Stream: stream, Text: line}
}

// teardown kills every spawned command tree (exited ones included), waits
// until each has exited and reaps it, joins all pumps and finally drains the
// multiplexer. Shells are reaped only here so their pids stay reserved for
// the kill.
func (s *Supervisor) teardown(sess *session) error {
	var errs []error

	for _, p := range sess.procs {
		if err := s.killer.KillTree(p.PID()); err != nil {
			errs = append(errs, &domain.KillError{Role: p.Role(), PID: p.PID(), Err: err})
			continue
		}
		s.log.Debugw("killed command tree", "role", p.Role(), "pid", p.PID())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.DrainTimeout)
	defer cancel()

	for _, p := range sess.procs {
		select {
		case <-p.Exited():
			if err := p.WaitErr(); err != nil {
				s.log.Warnw("collecting exit status failed", "role", p.Role(), "error", err)
			}
			// The tree is dead, the pid may now be recycled
			if err := p.proc.Release(); err != nil {
				s.log.Warnw("reaping command failed", "role", p.Role(), "pid", p.PID(), "error", err)
			}
		case <-ctx.Done():
			errs = append(errs, &domain.KillError{
				Role: p.Role(),
				PID:  p.PID(),
				Err:  fmt.Errorf("still running %s after kill", s.config.DrainTimeout),
			})
		}
	}

	joined := true
	for _, p := range sess.procs {
		if err := joinPumps(ctx, p); err != nil {
			errs = append(errs, &domain.JoinError{Role: p.Role(), Err: err})
			joined = false
		}
	}

	// Pumps that never finished may still send; their channels stay open
	if joined {
		close(sess.stdout)
		close(sess.stderr)
		sess.mux.Wait()
	}

	return errors.Join(errs...)
}

// joinPumps waits for both output readers of p, bounded by ctx
func joinPumps(ctx context.Context, p *SupervisedProcess) error {
	done := make(chan error, 1)
	go func() {
		done <- p.pumps.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("output still open: %w", ctx.Err())
	}
}
