package domain

import "strings"

// Role identifies which supervised command produced a line or an outcome
type Role string

const (
	// RoleRun is the long-running command (for example a dev server)
	RoleRun Role = "RUN"
	// RoleCheck is the side command whose failure tears down run
	RoleCheck Role = "CHECK"
	// RoleSupervisor marks lines and outcomes produced by runcheck itself
	RoleSupervisor Role = "SUPERVISOR"
)

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Command returns the lowercase name used in status lines ("run", "check")
func (r Role) Command() string {
	return strings.ToLower(string(r))
}

// Stream represents the output stream type
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// String returns the string representation of Stream
func (s Stream) String() string {
	return string(s)
}
