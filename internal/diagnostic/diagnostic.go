package diagnostic

import (
	"fmt"
	"strings"

	"github.com/lhaig/vesuvius/internal/source"
)

// Severity represents the severity level of a note
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Occurrence says whether the noted problem happens on every path or only on
// some of them
type Occurrence int

const (
	Always Occurrence = iota
	Sometimes
	Never
)

func (o Occurrence) String() string {
	switch o {
	case Always:
		return "always"
	case Sometimes:
		return "sometimes"
	default:
		return "never"
	}
}

// Label points a message at a source range. A label with a zero range is
// attached to the note as a whole.
type Label struct {
	Range   source.Range
	Message string
}

// At builds a label on r
func At(r source.Range, format string, args ...any) Label {
	return Label{Range: r, Message: fmt.Sprintf(format, args...)}
}

// Text builds a label without a range
func Text(format string, args ...any) Label {
	return Label{Message: fmt.Sprintf(format, args...)}
}

// Note is one queued compiler message
type Note struct {
	Severity   Severity
	Kind       Kind
	Occurrence Occurrence
	Labels     []Label
}

// Title returns the headline of n, e.g. "block contents never called"
func (n Note) Title() string {
	return n.Kind.Title(n.Occurrence)
}

// Primary returns the first ranged label of n and whether one exists
func (n Note) Primary() (Label, bool) {
	for _, l := range n.Labels {
		if !l.Range.IsZero() {
			return l, true
		}
	}
	return Label{}, false
}

// Queue collects notes in encounter order. It is append-only while a
// compilation runs and is drained afterwards.
type Queue struct {
	items []Note
}

// New creates a new empty Queue
func New() *Queue {
	return &Queue{
		items: make([]Note, 0),
	}
}

// Enqueue appends a note
func (q *Queue) Enqueue(sev Severity, kind Kind, occ Occurrence, labels ...Label) {
	q.items = append(q.items, Note{
		Severity:   sev,
		Kind:       kind,
		Occurrence: occ,
		Labels:     labels,
	})
}

// Errorf adds an always-occurring error with a single label on r
func (q *Queue) Errorf(kind Kind, r source.Range, format string, args ...any) {
	q.Enqueue(Error, kind, Always, At(r, format, args...))
}

// Warningf adds an always-occurring warning with a single label on r
func (q *Queue) Warningf(kind Kind, r source.Range, format string, args ...any) {
	q.Enqueue(Warning, kind, Always, At(r, format, args...))
}

// Merge appends every note of other
func (q *Queue) Merge(other *Queue) {
	q.items = append(q.items, other.items...)
}

// PromoteWarnings turns every warning into an error
func (q *Queue) PromoteWarnings() {
	for i := range q.items {
		q.items[i].Severity = Error
	}
}

// HasErrors returns true if there are any error-level notes
func (q *Queue) HasErrors() bool {
	for _, item := range q.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level notes
func (q *Queue) Errors() []Note {
	errors := make([]Note, 0)
	for _, item := range q.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all notes regardless of severity
func (q *Queue) All() []Note {
	return q.items
}

// OfKind returns the notes of one kind
func (q *Queue) OfKind(kind Kind) []Note {
	var out []Note
	for _, item := range q.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// Count returns the total number of notes
func (q *Queue) Count() int {
	return len(q.items)
}

// ErrorCount returns the number of error-level notes
func (q *Queue) ErrorCount() int {
	count := 0
	for _, item := range q.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level notes
func (q *Queue) WarningCount() int {
	count := 0
	for _, item := range q.items {
		if item.Severity == Warning {
			count++
		}
	}
	return count
}

// Format returns the notes as plain text, one block per note:
//
//	error[E0005]: unknown symbol
//	  --> main.vsv:3:10: `x` is not defined
func (q *Queue) Format(sources *source.Set) string {
	if len(q.items) == 0 {
		return ""
	}

	var builder strings.Builder
	r := &Renderer{w: &builder, sources: sources}
	for _, item := range q.items {
		r.note(item)
	}
	return strings.TrimRight(builder.String(), "\n")
}

// Clear removes all notes from the queue
func (q *Queue) Clear() {
	q.items = make([]Note, 0)
}
