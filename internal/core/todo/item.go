package todo

import "path/filepath"

// Item is a node in a parsed outline tree. Children are in file order.
type Item struct {
	Content  string  `json:"content"`
	Status   Status  `json:"status"`
	Children []*Item `json:"children,omitempty"`

	// SourceFile and SourceLine locate the item's text for navigation.
	// SourceLine is 0-based and counts original file lines, including
	// blank lines the parser skipped. Both are empty for synthetic items.
	SourceFile string `json:"source_file,omitempty"`
	SourceLine int    `json:"source_line"`

	// Indent is the leading-whitespace width of the source line. It drives
	// parent assignment during parsing and carries no meaning afterwards
	// beyond round-trip rendering.
	Indent int `json:"-"`

	// Synthetic marks placeholder items ("empty file", "no active tasks")
	// that have no source location.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Placeholder returns a synthetic item used where no real task exists.
func Placeholder(content string) *Item {
	return &Item{Content: content, Status: StatusNotStarted, Synthetic: true}
}

// IsActive reports whether the item or any descendant is in progress. An
// active descendant bubbles visibility up so partially active branches are
// never hidden.
func (it *Item) IsActive() bool {
	if it.Status == StatusInProgress {
		return true
	}
	for _, c := range it.Children {
		if c.IsActive() {
			return true
		}
	}
	return false
}

// Walk visits the item and every descendant depth-first in file order.
func (it *Item) Walk(fn func(*Item)) {
	fn(it)
	for _, c := range it.Children {
		c.Walk(fn)
	}
}

// File is one parsed todo file. A File is never mutated after construction;
// re-parsing produces a fresh replacement value.
type File struct {
	Path  string  `json:"path"`
	Name  string  `json:"name"`
	Group string  `json:"group"`
	Items []*Item `json:"items"`
}

// NewFile constructs a File for path with the given top-level items.
func NewFile(path, group string, items []*Item) *File {
	return &File{
		Path:  path,
		Name:  filepath.Base(path),
		Group: group,
		Items: items,
	}
}

// Group is a named collection of todo files. The name derives from the
// first directory segment under a search root, or the root's own display
// name for files sitting directly under it.
type Group struct {
	Name  string  `json:"name"`
	Files []*File `json:"files"`
}

// ActiveTask is one entry in the flattened active-task listing: a top-level
// item that is in progress itself or transitively contains one.
type ActiveTask struct {
	Group string `json:"group"`
	Path  string `json:"path"`
	Item  *Item  `json:"item"`
}

// ActiveTasks flattens the grouped snapshot into the top-level items with
// in-progress work anywhere beneath them. Order: group order, file order,
// file line order.
func ActiveTasks(groups []Group) []ActiveTask {
	var out []ActiveTask
	for _, g := range groups {
		for _, f := range g.Files {
			for _, it := range f.Items {
				if it.IsActive() {
					out = append(out, ActiveTask{Group: g.Name, Path: f.Path, Item: it})
				}
			}
		}
	}
	return out
}
