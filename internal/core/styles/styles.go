// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"todotree/internal/core/todo"
)

var (
	GroupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	FileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	DoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Strikethrough(true)
)

// statusStyles maps each task status to its rendering style.
var statusStyles = map[todo.Status]lipgloss.Style{
	todo.StatusNotStarted: lipgloss.NewStyle(),
	todo.StatusInProgress: ActiveStyle,
	todo.StatusCompleted:  DoneStyle,
}

// Task renders one task line (glyph plus content) for its status.
func Task(it *todo.Item) string {
	if it.Synthetic {
		return MutedStyle.Render(it.Content)
	}

	style, ok := statusStyles[it.Status]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(it.Status.Glyph() + " " + it.Content)
}
