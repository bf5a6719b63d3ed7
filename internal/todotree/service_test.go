package todotree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todotree/internal/core/cache"
	"todotree/internal/core/config"
	"todotree/internal/core/todo"
)

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	return NewService(cfg, cache.New(64, zerolog.Nop()), zerolog.Nop())
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func groupNames(groups []todo.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func TestService_FindAllFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("groups by first segment under root", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "projects", "alpha", "tasks.todo"), "☐ a\n")
		writeFile(t, filepath.Join(ws, "projects", "alpha", "deep", "more.todo"), "☐ b\n")
		writeFile(t, filepath.Join(ws, "projects", "beta", "tasks.todo"), "☐ c\n")
		writeFile(t, filepath.Join(ws, "projects", "top.todo"), "☐ d\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		cfg.Roots = []config.Root{{Path: "projects", Name: "Projects"}}

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		assert.Equal(t, []string{"Projects", "alpha", "beta"}, groupNames(groups))

		for _, g := range groups {
			switch g.Name {
			case "Projects":
				require.Len(t, g.Files, 1)
				assert.Equal(t, "top.todo", g.Files[0].Name)
			case "alpha":
				assert.Len(t, g.Files, 2)
			case "beta":
				assert.Len(t, g.Files, 1)
			}
		}
	})

	t.Run("no roots searches workspace with ungrouped label", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "loose.todo"), "☐ a\n")
		writeFile(t, filepath.Join(ws, "docs", "notes.todo"), "☐ b\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		assert.Equal(t, []string{"docs", config.UngroupedLabel}, groupNames(groups))
	})

	t.Run("same group name across roots merges by append", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "one", "shared", "a.todo"), "☐ a\n")
		writeFile(t, filepath.Join(ws, "two", "shared", "b.todo"), "☐ b\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		cfg.Roots = []config.Root{{Path: "one"}, {Path: "two"}}

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		require.Len(t, groups, 1)
		assert.Equal(t, "shared", groups[0].Name)
		assert.Len(t, groups[0].Files, 2, "no file dropped or duplicated")
	})

	t.Run("excluded and hidden directories are skipped", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "keep", "a.todo"), "☐ a\n")
		writeFile(t, filepath.Join(ws, "node_modules", "dep", "b.todo"), "☐ b\n")
		writeFile(t, filepath.Join(ws, ".hidden", "c.todo"), "☐ c\n")
		writeFile(t, filepath.Join(ws, "skipme", "d.todo"), "☐ d\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		cfg.Exclude = []string{"skipme/**"}

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		assert.Equal(t, []string{"keep"}, groupNames(groups))
	})

	t.Run("non-matching extensions ignored", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "a.todo"), "☐ a\n")
		writeFile(t, filepath.Join(ws, "b.txt"), "☐ b\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Files, 1)
		assert.Equal(t, "a.todo", groups[0].Files[0].Name)
	})

	t.Run("missing root contributes nothing", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "real", "a.todo"), "☐ a\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		cfg.Roots = []config.Root{{Path: "real"}, {Path: "gone"}}

		groups := newTestService(t, &cfg).FindAllFiles(ctx)
		assert.Equal(t, []string{"real"}, groupNames(groups))
	})
}

func TestService_Groups(t *testing.T) {
	ctx := context.Background()

	t.Run("cache-or-refresh", func(t *testing.T) {
		ws := t.TempDir()
		writeFile(t, filepath.Join(ws, "a.todo"), "☐ a\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		svc := newTestService(t, &cfg)

		refreshes := 0
		svc.OnRefreshed(func([]todo.Group) { refreshes++ })

		first := svc.Groups(ctx)
		second := svc.Groups(ctx)
		assert.Equal(t, 1, refreshes, "second read serves the snapshot")
		assert.Equal(t, first, second)
	})

	t.Run("refresh replaces snapshot", func(t *testing.T) {
		ws := t.TempDir()
		path := filepath.Join(ws, "a.todo")
		writeFile(t, path, "☐ a\n")

		cfg := config.DefaultConfig()
		cfg.Workspace = ws
		svc := newTestService(t, &cfg)

		before := svc.Groups(ctx)
		require.Len(t, before[0].Files[0].Items, 1)

		writeFile(t, path, "☐ a\n■ b\n")
		svc.Invalidate(path)
		after := svc.Refresh(ctx)

		require.Len(t, after[0].Files[0].Items, 2)
		// The old snapshot the caller holds is untouched.
		assert.Len(t, before[0].Files[0].Items, 1)
	})
}

func TestService_ActiveTasks(t *testing.T) {
	ctx := context.Background()
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "work", "a.todo"), "☐ Parent:\n    ✔ ChildA\n    ■ ChildB\n")
	writeFile(t, filepath.Join(ws, "work", "b.todo"), "✔ all done\n")

	cfg := config.DefaultConfig()
	cfg.Workspace = ws

	active := newTestService(t, &cfg).ActiveTasks(ctx)
	require.Len(t, active, 1)
	assert.Equal(t, "work", active[0].Group)
	assert.Equal(t, "Parent:", active[0].Item.Content)
}

func TestService_OnRefreshed(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.Workspace = t.TempDir()
	svc := newTestService(t, &cfg)

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		calls := 0
		unsub := svc.OnRefreshed(func([]todo.Group) { calls++ })

		svc.Refresh(ctx)
		unsub()
		svc.Refresh(ctx)

		assert.Equal(t, 1, calls)
	})

	t.Run("panicking subscriber does not block others", func(t *testing.T) {
		var survived bool
		unsub1 := svc.OnRefreshed(func([]todo.Group) { panic("boom") })
		unsub2 := svc.OnRefreshed(func([]todo.Group) { survived = true })
		defer unsub1()
		defer unsub2()

		svc.Refresh(ctx)
		assert.True(t, survived)
	})
}
