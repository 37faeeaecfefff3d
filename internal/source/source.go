package source

import (
	"fmt"
	"sort"
)

// ModuleID identifies a registered source module. Zero is never handed out.
type ModuleID int

// NoModule marks a range that does not belong to any registered module
const NoModule ModuleID = 0

// Range is a half-open byte range [Start, End) inside one module
type Range struct {
	Module ModuleID
	Start  int
	End    int
}

// Span returns a range in module m covering [start, end)
func Span(m ModuleID, start, end int) Range {
	return Range{Module: m, Start: start, End: end}
}

// Join returns the smallest range covering both r and other.
// Ranges from different modules are not joined; r is returned unchanged.
func (r Range) Join(other Range) Range {
	if r.Module != other.Module {
		return r
	}
	return Range{Module: r.Module, Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// IsZero reports whether r is the zero range
func (r Range) IsZero() bool {
	return r == Range{}
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d..%d", r.Module, r.Start, r.End)
}

// Position is a 1-based line and column
type Position struct {
	Line   int
	Column int
}

// Module is a single registered source text
type Module struct {
	ID    ModuleID
	Path  string
	Text  string
	lines []int // byte offset of each line start
}

// Set registers the source text of every module in one compilation
type Set struct {
	modules []*Module
}

// NewSet creates an empty source set
func NewSet() *Set {
	return &Set{}
}

// Add registers text under path and returns its module id
func (s *Set) Add(path, text string) ModuleID {
	m := &Module{
		ID:    ModuleID(len(s.modules) + 1),
		Path:  path,
		Text:  text,
		lines: lineStarts(text),
	}
	s.modules = append(s.modules, m)
	return m.ID
}

// Module returns the module registered under id, or nil
func (s *Set) Module(id ModuleID) *Module {
	if id <= NoModule || int(id) > len(s.modules) {
		return nil
	}
	return s.modules[id-1]
}

// Position converts a byte offset into a 1-based line and column.
// Offsets past the end clamp to the end of the text.
func (m *Module) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.Text) {
		offset = len(m.Text)
	}
	line := sort.Search(len(m.lines), func(i int) bool { return m.lines[i] > offset }) - 1
	return Position{Line: line + 1, Column: offset - m.lines[line] + 1}
}

// Line returns the text of the 1-based line n without its newline
func (m *Module) Line(n int) string {
	if n < 1 || n > len(m.lines) {
		return ""
	}
	start := m.lines[n-1]
	end := len(m.Text)
	if n < len(m.lines) {
		end = m.lines[n] - 1
	}
	if end > start && m.Text[end-1] == '\r' {
		end--
	}
	return m.Text[start:end]
}

// Slice returns the source text covered by r
func (m *Module) Slice(r Range) string {
	start := max(0, min(r.Start, len(m.Text)))
	end := max(start, min(r.End, len(m.Text)))
	return m.Text[start:end]
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
