// Package config handles configuration loading and validation for todotree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// UngroupedLabel is the group name for files found directly under the
// workspace when no roots are configured.
const UngroupedLabel = "ungrouped"

// defaultExcludes are dependency-manager and VCS directories skipped during
// discovery regardless of user configuration.
var defaultExcludes = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
}

// Root designates one directory to search for todo files.
type Root struct {
	// Path is absolute or workspace-relative.
	Path string `yaml:"path"`
	// Name is the display name used as the group label for files sitting
	// directly under the root. Defaults to the directory base name.
	Name string `yaml:"name,omitempty"`
}

// DisplayName returns the root's group label.
func (r Root) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Path)
}

// Config holds the application configuration.
type Config struct {
	// Roots are the search roots. Empty means search the whole workspace.
	Roots      []Root   `yaml:"roots"`
	Extension  string   `yaml:"extension"`
	Exclude    []string `yaml:"exclude"`
	DebounceMS int      `yaml:"debounce_ms"`
	CacheSize  int      `yaml:"cache_size"`

	// Workspace is the directory relative root paths resolve against.
	// Set by the caller, not from the config file.
	Workspace string `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Extension:  ".todo",
		DebounceMS: 300,
		CacheSize:  256,
	}
}

// Load reads configuration from the given path and sets the workspace
// directory. If configPath is empty or doesn't exist, returns defaults with
// the provided workspace.
func Load(configPath, workspace string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Workspace = workspace

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set workspace since Unmarshal may have cleared it
			cfg.Workspace = workspace
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Extension == "" {
		c.Extension = defaults.Extension
	}
	if c.DebounceMS == 0 {
		c.DebounceMS = defaults.DebounceMS
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaults.CacheSize
	}
}

// Debounce returns the watcher debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ExcludePatterns returns user excludes merged with the built-in defaults.
func (c *Config) ExcludePatterns() []string {
	out := make([]string, 0, len(defaultExcludes)+len(c.Exclude))
	out = append(out, defaultExcludes...)
	out = append(out, c.Exclude...)
	return out
}

// ResolveRoot returns the absolute directory for a root entry.
func (c *Config) ResolveRoot(r Root) string {
	if filepath.IsAbs(r.Path) {
		return r.Path
	}
	return filepath.Join(c.Workspace, r.Path)
}
