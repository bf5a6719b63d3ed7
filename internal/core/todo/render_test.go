package todo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripTransient zeroes fields Render cannot reproduce (line numbers shift
// when blank lines are dropped) so trees can be compared structurally.
func stripTransient(items []*Item) {
	for _, it := range items {
		it.SourceLine = 0
		stripTransient(it.Children)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	text := "☐ Parent:\n    ✔ ChildA\n    ■ ChildB\n  ☐ shallow\nloose ☐ line\n"

	first := Parse("f.todo", text)
	second := Parse("f.todo", Render(first))

	stripTransient(first)
	stripTransient(second)
	assert.Equal(t, first, second)
}

func TestRewriteStatus(t *testing.T) {
	tests := []struct {
		name string
		line string
		to   Status
		want string
	}{
		{"toggle glyph", "    ☐ buy milk", StatusCompleted, "    ✔ buy milk"},
		{"insert glyph", "  buy milk", StatusInProgress, "  ■ buy milk"},
		{"preserve label glyphs", "☐ mark with ✔ when done", StatusInProgress, "■ mark with ✔ when done"},
		{"tab indentation", "\t■ task", StatusNotStarted, "\t☐ task"},
		{"crlf remainder survives", "☐ task\r", StatusCompleted, "✔ task\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteStatus(tt.line, tt.to))
		})
	}
}

func TestSetStatus(t *testing.T) {
	t.Run("rewrites only the addressed line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.todo")
		orig := "☐ one\n\n    ■ two\ntrailing text\n"
		require.NoError(t, os.WriteFile(path, []byte(orig), 0o644))

		require.NoError(t, SetStatus(path, 2, StatusCompleted))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "☐ one\n\n    ✔ two\ntrailing text\n", string(data))
	})

	t.Run("line out of range", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.todo")
		require.NoError(t, os.WriteFile(path, []byte("☐ one\n"), 0o644))

		assert.Error(t, SetStatus(path, 10, StatusCompleted))
		assert.Error(t, SetStatus(path, -1, StatusCompleted))
	})

	t.Run("blank line rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.todo")
		require.NoError(t, os.WriteFile(path, []byte("☐ one\n\n☐ two\n"), 0o644))

		assert.Error(t, SetStatus(path, 1, StatusInProgress))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, SetStatus(filepath.Join(t.TempDir(), "nope.todo"), 0, StatusCompleted))
	})
}
