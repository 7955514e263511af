package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/charliek/runcheck/internal/constants"
	"github.com/charliek/runcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
run: npm run dev
check: npx tsc --noEmit
shell: /bin/bash
env_file: .env
env:
  NODE_ENV: development
drain_timeout: 2s
color: false
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "npm run dev", cfg.Run)
		assert.Equal(t, "npx tsc --noEmit", cfg.Check)
		assert.Equal(t, "/bin/bash", cfg.Shell)
		assert.Equal(t, ".env", cfg.EnvFile)
		assert.Equal(t, "development", cfg.Env["NODE_ENV"])
		assert.Equal(t, 2*time.Second, cfg.DrainTimeout)
		assert.False(t, cfg.Color)
		assert.Equal(t, filepath.Dir(path), cfg.Dir)
	})

	t.Run("defaults apply", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "run: a\ncheck: b\n"))
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultDrainTimeout, cfg.DrainTimeout)
		assert.True(t, cfg.Color)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Empty(t, cfg.Run)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "run: a\nrestart: always\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("bad duration rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "drain_timeout: soon\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "drain_timeout")
	})

	t.Run("world-writable file rejected", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits not enforced on windows")
		}
		path := writeConfig(t, "run: a\n")
		require.NoError(t, os.Chmod(path, 0666))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "world-writable")
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("no file falls back to default", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("finds file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".runcheck.yml"), []byte("run: found\n"), 0644))
		t.Chdir(dir)

		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, "found", cfg.Run)
	})
}

func TestApply(t *testing.T) {
	cfg := &Config{Run: "file-run", Check: "file-check", DrainTimeout: time.Second, Color: true}

	cfg.Apply(Overrides{Check: "flag-check", DrainTimeout: 3 * time.Second, NoColor: true})

	assert.Equal(t, "file-run", cfg.Run)
	assert.Equal(t, "flag-check", cfg.Check)
	assert.Equal(t, 3*time.Second, cfg.DrainTimeout)
	assert.False(t, cfg.Color)
}

func TestCommandSpecs(t *testing.T) {
	cfg := &Config{Run: "serve", Check: "lint", Shell: "/bin/sh"}
	env := []string{"A=1"}

	run, check := cfg.CommandSpecs(env)
	assert.Equal(t, domain.RoleRun, run.Role)
	assert.Equal(t, "serve", run.Command)
	assert.Equal(t, domain.RoleCheck, check.Role)
	assert.Equal(t, "lint", check.Command)
	assert.Equal(t, "/bin/sh", check.Shell)
	assert.Equal(t, env, check.Env)
}
