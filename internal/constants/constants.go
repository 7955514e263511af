// Package constants provides shared configuration values used across runcheck.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "runcheck.yaml"
)

// ConfigFileCandidates are searched in order when no --config is given
var ConfigFileCandidates = []string{
	DefaultConfigFile,
	"runcheck.yml",
	".runcheck.yaml",
	".runcheck.yml",
}

// Shell defaults
const (
	// PosixShellEnv overrides the POSIX shell used to run commands
	PosixShellEnv = "SHELL"

	// DefaultPosixShell is used when SHELL is unset
	DefaultPosixShell = "/bin/sh"

	// WindowsShellEnv overrides the Windows command processor
	WindowsShellEnv = "COMSPEC"

	// DefaultWindowsShell is used when COMSPEC is unset
	DefaultWindowsShell = "cmd.exe"

	// TaskkillCommand kills a process tree on Windows
	TaskkillCommand = "taskkill"
)

// Timeout and duration defaults
const (
	// DefaultDrainTimeout bounds how long teardown waits for killed commands
	// to exit and for their output readers to finish.
	DefaultDrainTimeout = 5 * time.Second
)

// Buffer sizes
const (
	// LineChannelBuffer is the capacity of each multiplexed line channel
	LineChannelBuffer = 1024

	// ScannerBufferSize is the initial buffer size for line scanning
	ScannerBufferSize = 64 * 1024 // 64KB

	// ScannerMaxBufferSize is the maximum line length; longer lines are split
	ScannerMaxBufferSize = 1024 * 1024 // 1MB
)

// Environment toggles
const (
	// NoColorEnv disables colored output when set to any value
	NoColorEnv = "NO_COLOR"
)
