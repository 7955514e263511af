package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrSpawn             = errors.New("failed to spawn command")
	ErrReadDecode        = errors.New("undecodable output line")
	ErrKill              = errors.New("failed to kill command")
	ErrJoin              = errors.New("failed to join output readers")
	ErrStatusUnavailable = errors.New("exit status unavailable")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// SpawnError reports that the shell or one of its pipes could not be set up
type SpawnError struct {
	Role Role
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrSpawn, e.Role.Command(), e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// KillError reports that a command or its process tree could not be terminated
type KillError struct {
	Role Role
	PID  int
	Err  error
}

func (e *KillError) Error() string {
	return fmt.Sprintf("%s %s (pid %d): %v", ErrKill, e.Role.Command(), e.PID, e.Err)
}

func (e *KillError) Unwrap() []error {
	return []error{ErrKill, e.Err}
}

// JoinError reports that the output readers of a command did not finish
type JoinError struct {
	Role Role
	Err  error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("%s of %s command: %v", ErrJoin, e.Role.Command(), e.Err)
}

func (e *JoinError) Unwrap() []error {
	return []error{ErrJoin, e.Err}
}

// InterruptError is the cancellation cause used when runcheck itself
// receives a termination signal.
type InterruptError struct {
	Signal int
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted by signal %d", e.Signal)
}
