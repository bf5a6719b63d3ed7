package todo

import "strings"

// Parse converts file text into the ordered sequence of top-level items.
//
// The pass is strictly linear: each non-blank line becomes an item whose
// parent is the nearest preceding line with strictly shallower indentation.
// Equal indentation means sibling, so candidate ancestors are popped while
// their indent is >= the new line's. Blank and whitespace-only lines
// contribute nothing and do not disturb the ancestor stack, but they still
// advance the 0-based source line numbering so navigation stays accurate.
//
// No line is ever rejected: content without a recognized marker glyph is a
// task with default not-started status.
func Parse(path, text string) []*Item {
	var (
		top   []*Item
		stack []*Item
	)

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent, offset := leadingWhitespace(line)
		status, content := SplitStatus(line[offset:])

		item := &Item{
			Content:    content,
			Status:     status,
			SourceFile: path,
			SourceLine: i,
			Indent:     indent,
		}

		for len(stack) > 0 && stack[len(stack)-1].Indent >= indent {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			top = append(top, item)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, item)
		}

		stack = append(stack, item)
	}

	return top
}
