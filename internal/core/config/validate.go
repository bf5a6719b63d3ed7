package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("workspace", c.Workspace, nonEmpty),
		criterio.Run("extension", c.Extension, validExtension),
		c.validateLimits(),
		c.validateRoots(),
		c.validateExcludes(),
	)
}

// ValidateDeep calls Validate and additionally checks that configured root
// directories are accessible. Missing roots are a warning-level concern for
// discovery (they contribute nothing), but an explicitly configured path
// that exists as a file is a configuration error.
func (c *Config) ValidateDeep() error {
	if err := c.Validate(); err != nil {
		return err
	}

	var errs criterio.FieldErrorsBuilder
	for i, r := range c.Roots {
		info, err := os.Stat(c.ResolveRoot(r))
		if err != nil {
			continue // absent roots degrade to empty contributions
		}
		if !info.IsDir() {
			errs = errs.Append(fmt.Sprintf("roots[%d].path", i), fmt.Errorf("exists but is not a directory"))
		}
	}
	return errs.ToError()
}

func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.DebounceMS < 0 {
		errs = errs.Append("debounce_ms", fmt.Errorf("must not be negative"))
	}
	if c.CacheSize < 16 {
		errs = errs.Append("cache_size", fmt.Errorf("must be at least 16"))
	}
	return errs.ToError()
}

func (c *Config) validateRoots() error {
	var errs criterio.FieldErrorsBuilder
	for i, r := range c.Roots {
		if strings.TrimSpace(r.Path) == "" {
			errs = errs.Append(fmt.Sprintf("roots[%d].path", i), fmt.Errorf("cannot be empty"))
		}
	}
	return errs.ToError()
}

func (c *Config) validateExcludes() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("exclude[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validExtension(ext string) error {
	if ext == "" {
		return fmt.Errorf("cannot be empty")
	}
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("must start with a dot, got %q", ext)
	}
	return nil
}
