package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/lhaig/vesuvius/internal/source"
)

// ColorMode selects whether rendered notes use ANSI colors
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses auto, always or never
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Renderer writes notes with source excerpts
type Renderer struct {
	w       io.Writer
	sources *source.Set
	color   bool
}

// NewRenderer creates a renderer writing to w. In auto mode color is used
// only when w is a terminal and NO_COLOR is unset.
func NewRenderer(w io.Writer, sources *source.Set, mode ColorMode) *Renderer {
	return &Renderer{w: w, sources: sources, color: useColor(w, mode)}
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) paint(style, text string) string {
	if !r.color {
		return text
	}
	return style + text + ansiReset
}

func (r *Renderer) severityStyle(s Severity) string {
	if s == Error {
		return ansiBold + ansiRed
	}
	return ansiBold + ansiYellow
}

// Render writes every note of q followed by the summary line
func (r *Renderer) Render(q *Queue) {
	for _, n := range q.All() {
		r.note(n)
	}
	fmt.Fprintln(r.w, r.Summary(q))
}

func (r *Renderer) note(n Note) {
	header := fmt.Sprintf("%s[%s]", n.Severity, n.Kind.Code())
	fmt.Fprintf(r.w, "%s: %s\n", r.paint(r.severityStyle(n.Severity), header), r.paint(ansiBold, n.Title()))
	for _, l := range n.Labels {
		r.label(n.Severity, l)
	}
	fmt.Fprintln(r.w)
}

func (r *Renderer) label(sev Severity, l Label) {
	if l.Range.IsZero() {
		fmt.Fprintf(r.w, "  %s %s\n", r.paint(ansiBlue, "="), l.Message)
		return
	}
	var m *source.Module
	if r.sources != nil {
		m = r.sources.Module(l.Range.Module)
	}
	if m == nil {
		fmt.Fprintf(r.w, "  %s %s: %s\n", r.paint(ansiBlue, "-->"), l.Range, l.Message)
		return
	}

	start := m.Position(l.Range.Start)
	end := m.Position(l.Range.End)
	fmt.Fprintf(r.w, "  %s %s:%d:%d\n", r.paint(ansiBlue, "-->"), m.Path, start.Line, start.Column)

	line := m.Line(start.Line)
	num := strconv.Itoa(start.Line)
	gutter := strings.Repeat(" ", len(num))
	width := 1
	if end.Line == start.Line && end.Column > start.Column {
		width = end.Column - start.Column
	} else if end.Line != start.Line {
		width = max(1, len(line)-start.Column+1)
	}
	pad := strings.Repeat(" ", start.Column-1)
	carets := r.paint(r.severityStyle(sev), strings.Repeat("^", width)+" "+l.Message)

	fmt.Fprintf(r.w, "  %s %s\n", gutter, r.paint(ansiBlue, "|"))
	fmt.Fprintf(r.w, "  %s %s %s\n", r.paint(ansiBlue, num), r.paint(ansiBlue, "|"), line)
	fmt.Fprintf(r.w, "  %s %s %s%s\n", gutter, r.paint(ansiBlue, "|"), pad, carets)
}

// Summary returns the closing line, e.g. "Failed with 1 warning and 2 errors."
func (r *Renderer) Summary(q *Queue) string {
	warns, errs := q.WarningCount(), q.ErrorCount()
	var sb strings.Builder
	if errs > 0 {
		sb.WriteString(r.paint(ansiBold+ansiRed, "Failed"))
	} else {
		sb.WriteString(r.paint(ansiBold+ansiGreen, "Finished"))
	}
	var parts []string
	if warns > 0 {
		parts = append(parts, r.paint(ansiYellow, plural(warns, "warning")))
	}
	if errs > 0 {
		parts = append(parts, r.paint(ansiRed, plural(errs, "error")))
	}
	if len(parts) > 0 {
		sb.WriteString(" with ")
		sb.WriteString(strings.Join(parts, " and "))
	}
	sb.WriteString(".")
	return sb.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
