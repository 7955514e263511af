package integration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	buildOnce   sync.Once
	builtBinary string
	buildErr    error
)

// buildBinary builds the runcheck binary once per test run and returns its path
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Project root is two directories up from test/integration
		wd, err := os.Getwd()
		if err != nil {
			buildErr = fmt.Errorf("failed to get working directory: %w", err)
			return
		}
		projectRoot := filepath.Join(wd, "..", "..")

		dir, err := os.MkdirTemp("", "runcheck-integration")
		if err != nil {
			buildErr = err
			return
		}
		builtBinary = filepath.Join(dir, "runcheck")

		cmd := exec.Command("go", "build", "-o", builtBinary, "./cmd/runcheck")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("failed to build binary: %w\n%s", err, output)
		}
	})

	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return builtBinary
}

// result is the observed behavior of one runcheck invocation
type result struct {
	code    int
	stdout  string
	stderr  string
	elapsed time.Duration
}

// startRuncheck starts the binary without waiting for it
func startRuncheck(t *testing.T, binary string, args ...string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start runcheck: %v", err)
	}
	t.Cleanup(func() { killRuncheck(cmd) })

	return cmd, &stdout, &stderr
}

// runRuncheck runs the binary to completion
func runRuncheck(t *testing.T, binary string, args ...string) result {
	t.Helper()

	start := time.Now()
	cmd, stdout, stderr := startRuncheck(t, binary, args...)
	code := waitExit(t, cmd, 20*time.Second)

	return result{
		code:    code,
		stdout:  stdout.String(),
		stderr:  stderr.String(),
		elapsed: time.Since(start),
	}
}

// waitExit waits for cmd and returns its exit code
func waitExit(t *testing.T, cmd *exec.Cmd, timeout time.Duration) int {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		if err != nil {
			t.Fatalf("waiting for runcheck: %v", err)
		}
		return 0
	case <-time.After(timeout):
		t.Fatalf("runcheck did not exit within %v", timeout)
		return -1
	}
}

// killRuncheck forcefully kills the runcheck process if it is still running
func killRuncheck(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil && cmd.ProcessState == nil {
		_ = cmd.Process.Kill()
	}
}

// processesWithMarker lists pids whose command line contains marker
func processesWithMarker(t *testing.T, marker string) []string {
	t.Helper()

	entries, err := os.ReadDir("/proc")
	if err != nil {
		t.Skipf("cannot inspect processes: %v", err)
	}

	var pids []string
	for _, e := range entries {
		if !e.IsDir() || strings.Trim(e.Name(), "0123456789") != "" {
			continue
		}
		cmdline, err := os.ReadFile(filepath.Join("/proc", e.Name(), "cmdline"))
		if err != nil {
			continue
		}
		if strings.Contains(string(cmdline), marker) {
			pids = append(pids, e.Name())
		}
	}
	return pids
}

// uniqueMarker returns a string to tag spawned commands with
func uniqueMarker(t *testing.T) string {
	return fmt.Sprintf("runcheck-marker-%d-%s", os.Getpid(), strings.ReplaceAll(t.Name(), "/", "-"))
}

// requireLinux skips tests that inspect /proc
func requireLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process inspection requires /proc")
	}
}

// skipShort skips the test if -short flag is provided
func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}
