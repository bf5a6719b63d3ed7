// Package todo defines the indented-outline task domain model: statuses with
// their on-disk marker glyphs, the task tree, parsing, and rendering.
package todo

import "strings"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// statusGlyphs maps each status to its single canonical marker glyph. A
// glyph is recognized only as the first non-whitespace token of a line;
// occurrences elsewhere are plain content.
var statusGlyphs = []struct {
	status Status
	glyph  string
}{
	{StatusNotStarted, "☐"},
	{StatusInProgress, "■"},
	{StatusCompleted, "✔"},
}

// Glyph returns the canonical on-disk marker for the status.
func (s Status) Glyph() string {
	for _, sg := range statusGlyphs {
		if sg.status == s {
			return sg.glyph
		}
	}
	return ""
}

// ParseStatus parses a status name as used by the CLI (not-started,
// in-progress, completed/done). Returns false for unknown names.
func ParseStatus(name string) (Status, bool) {
	switch strings.ToLower(name) {
	case string(StatusNotStarted), "todo":
		return StatusNotStarted, true
	case string(StatusInProgress), "active":
		return StatusInProgress, true
	case string(StatusCompleted), "done":
		return StatusCompleted, true
	}
	return "", false
}

// SplitStatus classifies the non-whitespace remainder of a line. If it
// begins with a marker glyph, the matching status and the trimmed content
// after the glyph are returned. Lines without a recognized glyph are still
// tasks: they default to StatusNotStarted with the whole trimmed text as
// content.
func SplitStatus(text string) (Status, string) {
	for _, sg := range statusGlyphs {
		if strings.HasPrefix(text, sg.glyph) {
			return sg.status, strings.TrimSpace(strings.TrimPrefix(text, sg.glyph))
		}
	}
	return StatusNotStarted, strings.TrimSpace(text)
}

// leadingWhitespace returns the count of leading whitespace characters in
// line and the byte offset where the remainder begins.
func leadingWhitespace(line string) (count, offset int) {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return count, i
		}
		count++
	}
	return count, len(line)
}
