package supervisor

import "github.com/charliek/runcheck/internal/constants"

// ResolveShell returns the program used to interpret command strings on goos.
// Windows uses COMSPEC (default cmd.exe); everything else uses SHELL
// (default /bin/sh).
func ResolveShell(goos string, getenv func(string) string) string {
	if goos == "windows" {
		if shell := getenv(constants.WindowsShellEnv); shell != "" {
			return shell
		}
		return constants.DefaultWindowsShell
	}
	if shell := getenv(constants.PosixShellEnv); shell != "" {
		return shell
	}
	return constants.DefaultPosixShell
}

// ShellArgs returns the arguments that make the shell run command as a
// single script.
func ShellArgs(goos, command string) []string {
	if goos == "windows" {
		return []string{"/d", "/s", "/c", command}
	}
	return []string{"-c", command}
}
