package commands

import (
	"os"
	"path/filepath"

	"todotree/internal/core/config"
	"todotree/internal/todotree"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Workspace  string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Service aggregates and caches the parsed todo files
	Service *todotree.Service
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "todotree", "config.yaml")
}

// DefaultWorkspace returns the current working directory.
func DefaultWorkspace() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
