package todo

import (
	"fmt"
	"os"
	"strings"
)

// Render serializes items back to glyph+indent text using each node's
// original indentation. Rendering a parsed tree and reparsing it yields an
// equivalent tree.
func Render(items []*Item) string {
	var b strings.Builder
	renderInto(&b, items)
	return b.String()
}

func renderInto(b *strings.Builder, items []*Item) {
	for _, it := range items {
		b.WriteString(strings.Repeat(" ", it.Indent))
		b.WriteString(it.Status.Glyph())
		b.WriteString(" ")
		b.WriteString(it.Content)
		b.WriteString("\n")
		renderInto(b, it.Children)
	}
}

// RewriteStatus rewrites a single source line's status in place: only the
// marker glyph and its immediately following separator are replaced, the
// indentation and label text are preserved byte-for-byte. Lines without a
// glyph get one inserted before the label.
func RewriteStatus(line string, s Status) string {
	_, offset := leadingWhitespace(line)
	indent, rest := line[:offset], line[offset:]

	for _, sg := range statusGlyphs {
		if strings.HasPrefix(rest, sg.glyph) {
			rest = strings.TrimPrefix(rest, sg.glyph)
			rest = strings.TrimPrefix(rest, " ")
			break
		}
	}

	return indent + s.Glyph() + " " + rest
}

// SetStatus rewrites the status glyph of the given 0-based line of the file
// at path. Every other line round-trips byte-for-byte, including newline
// convention, because only the addressed line is touched.
func SetStatus(path string, line int, s Status) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	if line < 0 || line >= len(lines) {
		return fmt.Errorf("line %d out of range for %s", line, path)
	}
	if strings.TrimSpace(strings.TrimSuffix(lines[line], "\r")) == "" {
		return fmt.Errorf("line %d of %s is blank", line, path)
	}

	// A CRLF file splits into lines with trailing \r; RewriteStatus leaves
	// the tail of the line untouched, so the \r survives.
	lines[line] = RewriteStatus(lines[line], s)

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
