package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charliek/runcheck/internal/constants"
	"github.com/charliek/runcheck/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config represents the runcheck configuration after file and flag merging
type Config struct {
	Run          string
	Check        string
	Shell        string
	EnvFile      string
	Env          map[string]string
	DrainTimeout time.Duration
	Color        bool

	// Dir is the directory relative paths (env_file) are resolved against
	Dir string
}

// rawConfig mirrors the YAML file layout
type rawConfig struct {
	Run          string            `yaml:"run"`
	Check        string            `yaml:"check"`
	Shell        string            `yaml:"shell"`
	EnvFile      string            `yaml:"env_file"`
	Env          map[string]string `yaml:"env"`
	DrainTimeout string            `yaml:"drain_timeout"`
	Color        *bool             `yaml:"color,omitempty"`
}

// Overrides holds command line values that take precedence over the file.
// Zero values leave the file value untouched.
type Overrides struct {
	Run          string
	Check        string
	Shell        string
	EnvFile      string
	DrainTimeout time.Duration
	NoColor      bool
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		DrainTimeout: constants.DefaultDrainTimeout,
		Color:        true,
	}
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(path); err == nil {
		cfg.Dir = filepath.Dir(abs)
	} else {
		cfg.Dir = filepath.Dir(path)
	}
	return cfg, nil
}

// LoadOrDefault loads path when given. With an empty path it searches the
// standard locations and falls back to Default when none exists.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	found, err := FindConfigFile()
	if err != nil {
		return Default(), nil
	}
	return Load(found)
}

// Parse parses configuration from YAML bytes. The result is not validated
// because run and check may still arrive as flags.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing yaml: %v", domain.ErrInvalidConfig, err)
	}

	cfg := Default()
	cfg.Run = raw.Run
	cfg.Check = raw.Check
	cfg.Shell = raw.Shell
	cfg.EnvFile = raw.EnvFile
	cfg.Env = raw.Env

	if raw.DrainTimeout != "" {
		d, err := time.ParseDuration(raw.DrainTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: drain_timeout: %v", domain.ErrInvalidConfig, err)
		}
		cfg.DrainTimeout = d
	}
	if raw.Color != nil {
		cfg.Color = *raw.Color
	}

	return cfg, nil
}

// Apply merges command line overrides into the configuration
func (c *Config) Apply(o Overrides) {
	if o.Run != "" {
		c.Run = o.Run
	}
	if o.Check != "" {
		c.Check = o.Check
	}
	if o.Shell != "" {
		c.Shell = o.Shell
	}
	if o.EnvFile != "" {
		// Flag paths are relative to the working directory, not the config file
		if abs, err := filepath.Abs(o.EnvFile); err == nil {
			c.EnvFile = abs
		} else {
			c.EnvFile = o.EnvFile
		}
	}
	if o.DrainTimeout > 0 {
		c.DrainTimeout = o.DrainTimeout
	}
	if o.NoColor {
		c.Color = false
	}
}

// CommandSpecs returns the run and check commands ready to spawn with the
// given child environment.
func (c *Config) CommandSpecs(env []string) (run, check domain.CommandSpec) {
	run = domain.CommandSpec{Role: domain.RoleRun, Command: c.Run, Shell: c.Shell, Env: env}
	check = domain.CommandSpec{Role: domain.RoleCheck, Command: c.Check, Shell: c.Shell, Env: env}
	return run, check
}
