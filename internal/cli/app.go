// Package cli wires flags, config and logging to the supervisor.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charliek/runcheck/internal/config"
	"github.com/charliek/runcheck/internal/constants"
	"github.com/charliek/runcheck/internal/logs"
	"github.com/charliek/runcheck/internal/supervisor"
)

// App is one runcheck invocation
type App struct {
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	environ func() []string

	// runner and killer are nil in production, replaced in tests
	runner supervisor.ProcessRunner
	killer supervisor.TreeKiller

	exitCode int
}

// NewApp creates an App bound to the process's own console
func NewApp() *App {
	return &App{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		environ: os.Environ,
	}
}

// Run executes runcheck with os.Args-style arguments and returns the exit
// code for the process.
func (a *App) Run(args []string) int {
	rootCmd := a.newRootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return a.exitCode
}

func (a *App) runSupervisor(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Apply(opts.overrides())
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := supervisor.CheckTreeKill(); err != nil {
		return err
	}

	env, err := cfg.ChildEnv(a.environ())
	if err != nil {
		return err
	}

	logger := newLogger(a.stderr, opts.verbose)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	color := cfg.Color && a.getenv(constants.NoColorEnv) == ""
	printer := logs.NewPrinter(a.stdout, a.stderr, color)

	run, check := cfg.CommandSpecs(env)
	sup := supervisor.New(supervisor.SupervisorConfig{
		Run:          run,
		Check:        check,
		DrainTimeout: cfg.DrainTimeout,
	}, a.runner, a.killer, printer, log)

	ctx, stop := supervisor.NotifyInterrupt(ctx)
	defer stop()

	log.Debugw("starting", "run", cfg.Run, "check", cfg.Check, "drain_timeout", cfg.DrainTimeout)
	outcome, err := sup.Run(ctx)
	if err != nil {
		return err
	}

	a.exitCode = outcome.Code
	return nil
}
