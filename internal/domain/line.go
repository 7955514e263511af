package domain

// LineMessage is a single line of output travelling from a pump to the
// multiplexer. Messages with RoleSupervisor are status lines.
type LineMessage struct {
	Role   Role
	Stream Stream
	Text   string
}

// IsStatus reports whether the message was produced by the supervisor
func (m LineMessage) IsStatus() bool {
	return m.Role == RoleSupervisor
}

// CommandSpec describes a shell command to spawn for a role
type CommandSpec struct {
	Role    Role
	Command string
	Shell   string   // empty means resolve from the environment
	Env     []string // nil inherits the supervisor environment
}
