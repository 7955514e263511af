package config

import (
	"fmt"
	"strings"

	"github.com/charliek/runcheck/internal/domain"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the merged configuration for errors
func Validate(config *Config) error {
	var errs []string

	if strings.TrimSpace(config.Run) == "" {
		errs = append(errs, ValidationError{Field: "run", Message: "command is required (--run or run:)"}.Error())
	}
	if strings.TrimSpace(config.Check) == "" {
		errs = append(errs, ValidationError{Field: "check", Message: "command is required (--check or check:)"}.Error())
	}
	if config.DrainTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "drain_timeout", Message: fmt.Sprintf("must be positive, got %s", config.DrainTimeout)}.Error())
	}
	for k := range config.Env {
		if k == "" || strings.ContainsAny(k, "= \t\n") {
			errs = append(errs, ValidationError{Field: "env", Message: fmt.Sprintf("invalid variable name %q", k)}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}
