//go:build windows

package supervisor

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// configureCommand hands the command string to cmd.exe verbatim. With /s the
// processor strips exactly one pair of surrounding quotes, so the default Go
// argument escaping would corrupt embedded quotes.
func configureCommand(cmd *exec.Cmd, command string) {
	flags := cmd.Args[1 : len(cmd.Args)-1]
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: fmt.Sprintf(`%s %s "%s"`, syscall.EscapeArg(cmd.Path), strings.Join(flags, " "), command),
	}
}
