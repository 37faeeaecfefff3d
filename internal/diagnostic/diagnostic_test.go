package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lhaig/vesuvius/internal/source"
)

func TestQueueCounts(t *testing.T) {
	q := New()
	q.Errorf(UnknownSymbol, source.Range{}, "`x` is not defined")
	q.Warningf(BlockContents, source.Range{}, "condition always fails")
	q.Enqueue(Error, DuplicateDefinition, Always, Text("first"), Text("second"))

	if !q.HasErrors() {
		t.Error("expected errors")
	}
	if q.Count() != 3 || q.ErrorCount() != 2 || q.WarningCount() != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", q.Count(), q.ErrorCount(), q.WarningCount())
	}
	for _, n := range q.Errors() {
		if n.Severity != Error {
			t.Errorf("Errors() returned a %s", n.Severity)
		}
	}
	if got := len(q.Errors()); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
	if got := len(q.OfKind(DuplicateDefinition)[0].Labels); got != 2 {
		t.Errorf("expected 2 labels, got %d", got)
	}

	q.Clear()
	if q.Count() != 0 || q.HasErrors() {
		t.Error("expected an empty queue after Clear")
	}
}

func TestWarningsNeverFail(t *testing.T) {
	q := New()
	q.Warningf(BlockContents, source.Range{}, "w")
	if q.HasErrors() {
		t.Fatal("warnings must not count as errors")
	}
	q.PromoteWarnings()
	if !q.HasErrors() {
		t.Error("expected promoted warning to be an error")
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		kind Kind
		occ  Occurrence
		want string
	}{
		{BlockContents, Never, "block contents never called"},
		{BlockContents, Always, "block contents always called"},
		{BoundBroken, Sometimes, "bound sometimes broken"},
		{InvalidType, Always, "invalid type received"},
	}
	for _, tt := range tests {
		if got := tt.kind.Title(tt.occ); got != tt.want {
			t.Errorf("Title(%d, %s) = %q, want %q", tt.kind, tt.occ, got, tt.want)
		}
	}
}

func TestExplain(t *testing.T) {
	text, err := Explain("e0004")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "E0004: invalid type received") {
		t.Errorf("unexpected explain text %q", text)
	}
	if _, err := Explain("E9999"); err == nil {
		t.Error("expected an error for an unknown code")
	}
	if len(Codes()) != 11 {
		t.Errorf("expected 11 codes, got %d", len(Codes()))
	}
}

func TestRenderExcerpt(t *testing.T) {
	sources := source.NewSet()
	text := "fn main() {\n  let x = y;\n};"
	id := sources.Add("main.vsv", text)
	start := strings.Index(text, "y;")

	q := New()
	q.Errorf(UnknownSymbol, source.Span(id, start, start+1), "`y` is not defined")

	var buf bytes.Buffer
	NewRenderer(&buf, sources, ColorNever).Render(q)
	out := buf.String()

	for _, want := range []string{
		"error[E0005]: unknown symbol",
		"--> main.vsv:2:11",
		"2 |   let x = y;",
		"          ^ `y` is not defined",
		"Failed with 1 error.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no color codes")
	}
}

func TestSummary(t *testing.T) {
	r := &Renderer{}
	q := New()
	if got := r.Summary(q); got != "Finished." {
		t.Errorf("got %q", got)
	}
	q.Warningf(BlockContents, source.Range{}, "w")
	q.Warningf(BlockContents, source.Range{}, "w")
	if got := r.Summary(q); got != "Finished with 2 warnings." {
		t.Errorf("got %q", got)
	}
	q.Errorf(InvalidType, source.Range{}, "e")
	if got := r.Summary(q); got != "Failed with 2 warnings and 1 error." {
		t.Errorf("got %q", got)
	}
}

func TestParseColorMode(t *testing.T) {
	if m, err := ParseColorMode("Always"); err != nil || m != ColorAlways {
		t.Errorf("got %v, %v", m, err)
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Error("expected an error")
	}
}
