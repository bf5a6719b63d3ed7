package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing config file returns defaults", func(t *testing.T) {
		ws := t.TempDir()

		cfg, err := Load(filepath.Join(ws, "nope.yaml"), ws)
		require.NoError(t, err)
		assert.Equal(t, ".todo", cfg.Extension)
		assert.Equal(t, 300, cfg.DebounceMS)
		assert.Equal(t, 256, cfg.CacheSize)
		assert.Equal(t, ws, cfg.Workspace)
		assert.Empty(t, cfg.Roots)
	})

	t.Run("values from file with defaults applied", func(t *testing.T) {
		ws := t.TempDir()
		path := filepath.Join(ws, "config.yaml")
		body := `
roots:
  - path: notes
    name: Notes
  - path: /abs/projects
extension: .txt
exclude:
  - "**/dist/**"
debounce_ms: 150
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := Load(path, ws)
		require.NoError(t, err)
		require.Len(t, cfg.Roots, 2)
		assert.Equal(t, "Notes", cfg.Roots[0].DisplayName())
		assert.Equal(t, "projects", cfg.Roots[1].DisplayName())
		assert.Equal(t, ".txt", cfg.Extension)
		assert.Equal(t, 150*time.Millisecond, cfg.Debounce())
		assert.Equal(t, 256, cfg.CacheSize, "unset value takes default")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		ws := t.TempDir()
		path := filepath.Join(ws, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roots: [\n"), 0o644))

		_, err := Load(path, ws)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Workspace = "/ws"
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty workspace", func(t *testing.T) {
		cfg := valid()
		cfg.Workspace = "  "
		assert.Error(t, cfg.Validate())
	})

	t.Run("extension must be dot prefixed", func(t *testing.T) {
		cfg := valid()
		cfg.Extension = "todo"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative debounce", func(t *testing.T) {
		cfg := valid()
		cfg.DebounceMS = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("cache size floor", func(t *testing.T) {
		cfg := valid()
		cfg.CacheSize = 4
		assert.Error(t, cfg.Validate())
	})

	t.Run("blank root path", func(t *testing.T) {
		cfg := valid()
		cfg.Roots = []Root{{Path: ""}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid exclude glob", func(t *testing.T) {
		cfg := valid()
		cfg.Exclude = []string{"[unterminated"}
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_ResolveRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workspace = "/ws"

	assert.Equal(t, filepath.Join("/ws", "notes"), cfg.ResolveRoot(Root{Path: "notes"}))
	assert.Equal(t, "/abs/notes", cfg.ResolveRoot(Root{Path: "/abs/notes"}))
}

func TestConfig_ExcludePatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{"**/dist/**"}

	patterns := cfg.ExcludePatterns()
	assert.Contains(t, patterns, "**/node_modules/**")
	assert.Contains(t, patterns, "**/.git/**")
	assert.Contains(t, patterns, "**/dist/**")
}
