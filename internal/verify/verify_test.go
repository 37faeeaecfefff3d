package verify

import (
	"strings"
	"testing"

	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/numeric"
	"github.com/lhaig/vesuvius/internal/parser"
	"github.com/lhaig/vesuvius/internal/source"
)

func check(t *testing.T, src string) (*Result, *source.Set) {
	t.Helper()
	return checkWith(t, Options{}, src)
}

func checkWith(t *testing.T, opts Options, src string) (*Result, *source.Set) {
	t.Helper()
	sources := source.NewSet()
	id := sources.Add("test.vsv", src)
	diags := diagnostic.New()
	prog := parser.Parse(id, src, diags)
	if diags.HasErrors() {
		t.Fatalf("parse errors:\n%s", diags.Format(sources))
	}
	return Verify(New(opts), prog), sources
}

func count(res *Result, kind diagnostic.Kind) int {
	return len(res.Notes.OfKind(kind))
}

func function(t *testing.T, res *Result, name string) FunctionSignature {
	t.Helper()
	for _, fn := range res.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q was not checked", name)
	return FunctionSignature{}
}

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if msg, _ := r.(string); !strings.Contains(msg, want) {
			t.Fatalf("expected panic containing %q, got %v", want, r)
		}
	}()
	fn()
}

func TestConditionAlwaysSucceeds(t *testing.T) {
	res, sources := check(t, `fn f { if (true) { 1 } else { 2 } };`)

	if n := count(res, diagnostic.BlockContents); n != 1 {
		t.Fatalf("expected 1 block-contents warning, got %d:\n%s", n, res.Notes.Format(sources))
	}
	if n := count(res, diagnostic.InvalidType); n != 0 {
		t.Errorf("expected no invalid-type notes, got %d", n)
	}
	note := res.Notes.OfKind(diagnostic.BlockContents)[0]
	if note.Severity != diagnostic.Warning || note.Title() != "block contents always called" {
		t.Errorf("unexpected note %s %q", note.Severity, note.Title())
	}
	if res.Notes.HasErrors() {
		t.Error("warnings must not fail the run")
	}

	body := function(t, res, "f").Body
	if body.Tag != TagNumeric || body.Kind != numeric.IntBig {
		t.Fatalf("expected an intbig result, got %s", body.TypeName())
	}
	if got := body.String(); got != "intbig {1}" {
		t.Errorf("expected only the if branch value, got %s", got)
	}

	if len(res.Branches) != 2 || !res.Branches[1].Shadowed || res.Branches[1].Evaluated {
		t.Errorf("expected the else clause to be shadowed, got %+v", res.Branches)
	}
}

func TestConditionNeverSucceeds(t *testing.T) {
	res, sources := check(t, `fn f { if (1 == 2) { missing } else { 2 } };`)

	notes := res.Notes.OfKind(diagnostic.BlockContents)
	if len(notes) != 1 {
		t.Fatalf("expected 1 block-contents warning, got %d:\n%s", len(notes), res.Notes.Format(sources))
	}
	if notes[0].Title() != "block contents never called" {
		t.Errorf("unexpected title %q", notes[0].Title())
	}
	if n := count(res, diagnostic.UnknownSymbol); n != 0 {
		t.Errorf("the dead block must not be evaluated, got %d unknown-symbol notes", n)
	}
	if got := function(t, res, "f").Body.String(); got != "intbig {2}" {
		t.Errorf("expected the else value, got %s", got)
	}
	if b := res.Branches[0]; b.Response != constraint.Never || b.Evaluated {
		t.Errorf("unexpected if report %+v", b)
	}
	if b := res.Branches[1]; b.Response != constraint.Always || !b.Evaluated {
		t.Errorf("unexpected else report %+v", b)
	}
}

func TestDeadBranchDeclarationsNotVisible(t *testing.T) {
	res, _ := check(t, `fn f {
    let x = if (1 == 2) { let hidden = 1; hidden } else { 2 };
    hidden
};`)
	notes := res.Notes.OfKind(diagnostic.UnknownSymbol)
	if len(notes) != 1 {
		t.Fatalf("expected 1 unknown-symbol note, got %d", len(notes))
	}
	if l, _ := notes[0].Primary(); !strings.Contains(l.Message, "hidden") {
		t.Errorf("unexpected message %q", l.Message)
	}
}

func TestBranchTypeMismatch(t *testing.T) {
	res, sources := check(t, `fn f(cond: bool) { if (cond) { 1 } else { 1.0 } };`)

	if n := count(res, diagnostic.InvalidType); n != 1 {
		t.Fatalf("expected 1 invalid-type note, got %d:\n%s", n, res.Notes.Format(sources))
	}
	body := function(t, res, "f").Body
	if !body.IsFailed() {
		t.Errorf("expected a failed placeholder, got %s", body)
	}
}

func TestComparisonClassification(t *testing.T) {
	tests := []struct {
		cond     string
		response constraint.Response
		warnings int
	}{
		{"x > 3", constraint.Sometimes, 0},
		{"x > 10", constraint.Never, 1},
		{"x >= 1", constraint.Always, 1},
		{"x == 5", constraint.Sometimes, 0},
		{"x != 7", constraint.Always, 1},
		{"c == true", constraint.Sometimes, 0},
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			src := `fn f(c: bool) {
    let x = if (c) { 1 } else { 5 };
    if (` + tt.cond + `) { 1 } else { 2 }
};`
			res, _ := check(t, src)
			if n := count(res, diagnostic.BlockContents); n != tt.warnings {
				t.Errorf("expected %d warnings, got %d", tt.warnings, n)
			}
			last := res.Branches[len(res.Branches)-2]
			if last.Response != tt.response {
				t.Errorf("expected %s, got %s", tt.response, last.Response)
			}
		})
	}
}

func TestLetShadowingInFunction(t *testing.T) {
	res, sources := check(t, `fn f { let x = 1; let x = 2; x };`)
	if res.Notes.Count() != 0 {
		t.Fatalf("expected no notes, got:\n%s", res.Notes.Format(sources))
	}
	if got := function(t, res, "f").Body.String(); got != "intbig {2}" {
		t.Errorf("expected the shadowing value, got %s", got)
	}
}

func TestDuplicateFunction(t *testing.T) {
	src := `fn twice { 1 };
fn twice { 2 };`
	res, _ := check(t, src)

	notes := res.Notes.OfKind(diagnostic.DuplicateDefinition)
	if len(notes) != 1 {
		t.Fatalf("expected 1 duplicate-definition note, got %d", len(notes))
	}
	labels := notes[0].Labels
	if len(labels) < 2 || labels[0].Range.IsZero() || labels[1].Range.IsZero() {
		t.Fatalf("expected both ranges to be cited, got %+v", labels)
	}
	if labels[0].Range.Start <= labels[1].Range.Start {
		t.Errorf("expected the later definition first, got %+v", labels)
	}
	if got := src[labels[1].Range.Start:labels[1].Range.End]; got != "twice" {
		t.Errorf("previous definition label covers %q", got)
	}
}

func TestDuplicateEntryPoint(t *testing.T) {
	src := `#[entry] fn main { };
#[entry] fn other { };`
	res, _ := check(t, src)

	notes := res.Notes.OfKind(diagnostic.DuplicateEntryPoint)
	if len(notes) != 1 {
		t.Fatalf("expected 1 duplicate-entry-point note, got %d", len(notes))
	}
	if res.Entry == nil || res.Entry.Name != "main" || res.Entry.Path != "root::main" {
		t.Fatalf("expected the first entry point to remain, got %+v", res.Entry)
	}
	labels := notes[0].Labels
	if len(labels) < 2 || labels[0].Range == labels[1].Range {
		t.Fatalf("expected both header ranges, got %+v", labels)
	}
	if got := src[labels[1].Range.Start:labels[1].Range.End]; got != "#[entry]" {
		t.Errorf("first header label covers %q", got)
	}
}

func TestEntryPathUsesRootName(t *testing.T) {
	res, _ := checkWith(t, Options{RootName: "demo"}, `#[entry] pub fn start { };`)
	if res.Entry == nil || res.Entry.Path != "demo::start" {
		t.Fatalf("unexpected entry %+v", res.Entry)
	}
	if fn := function(t, res, "start"); fn.Path != "demo::start" {
		t.Errorf("unexpected function path %q", fn.Path)
	}
}

func TestUnknownSymbolContinues(t *testing.T) {
	res, _ := check(t, `fn f { missing + 1 };
fn g { if (1 < 2) { 1 } else { 2 } };`)

	if n := count(res, diagnostic.UnknownSymbol); n != 1 {
		t.Errorf("expected 1 unknown-symbol note, got %d", n)
	}
	if len(res.Functions) != 2 {
		t.Fatalf("expected both functions to be checked, got %d", len(res.Functions))
	}
	if n := count(res, diagnostic.BlockContents); n != 1 {
		t.Errorf("expected the second function to be verified, got %d warnings", n)
	}
	if body := function(t, res, "f").Body; body.Kind != numeric.IntBig || !body.IsFailed() {
		t.Errorf("expected a failed intbig placeholder, got %s", body)
	}
}

func TestForwardReferenceAndModules(t *testing.T) {
	res, sources := check(t, `mod std::math;
fn a { b };
fn b { math };`)
	if res.Notes.Count() != 0 {
		t.Fatalf("expected no notes, got:\n%s", res.Notes.Format(sources))
	}
	if body := function(t, res, "a").Body; body.Tag != TagFunction {
		t.Errorf("expected a function value, got %s", body.TypeName())
	}
}

func TestBoundBroken(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		limit int
		occ   diagnostic.Occurrence
	}{
		{"overflow", `fn f { 200u8 + 100u8 };`, 0, diagnostic.Always},
		{"underflow", `fn f { 1u8 - 2u8 };`, 0, diagnostic.Always},
		{"division by zero", `fn f { 1 / 0 };`, 0, diagnostic.Always},
		{"some pairs", `fn f(c: bool) { let x = if (c) { 200u8 } else { 10u8 }; x + 100u8 };`, 0, diagnostic.Sometimes},
		{"divisor range", `fn f(c: bool) { let x = if (c) { 0 - 1 } else { 1 }; 10 / x };`, 1, diagnostic.Sometimes},
		{"widened low end", `fn f(c: bool) { let x = if (c) { 1u8 } else { 5u8 }; x - 3u8 };`, 1, diagnostic.Sometimes},
		{"enumerated low end", `fn f(c: bool) { let x = if (c) { 1u8 } else { 5u8 }; x - 3u8 };`, 0, diagnostic.Sometimes},
		{"widened all overflow", `fn f(c: bool) { let x = if (c) { 250u8 } else { 255u8 }; x + 10u8 };`, 1, diagnostic.Always},
		{"literal", `fn f { 300u8 };`, 0, diagnostic.Always},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, sources := checkWith(t, Options{MaxEnumerated: tt.limit}, tt.src)
			notes := res.Notes.OfKind(diagnostic.BoundBroken)
			if len(notes) != 1 {
				t.Fatalf("expected 1 bound-broken note, got %d:\n%s", len(notes), res.Notes.Format(sources))
			}
			if notes[0].Occurrence != tt.occ {
				t.Errorf("expected occurrence %s, got %s", tt.occ, notes[0].Occurrence)
			}
			if body := function(t, res, "f").Body; !body.IsFailed() {
				t.Errorf("expected a failed result, got %s", body)
			}
		})
	}
}

func TestArithmeticConstraints(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`fn f { 2 + 3 * 4 };`, "intbig {14}"},
		{`fn f { 7i32 / 2i32 };`, "int32 {3}"},
		{`fn f(c: bool) { let x = if (c) { 1 } else { 5 }; x * 2 };`, "intbig {2, 10}"},
		{`fn f(x: int32) { x + 1i32 };`, "int32 <any>"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res, sources := check(t, tt.src)
			if res.Notes.Count() != 0 {
				t.Fatalf("unexpected notes:\n%s", res.Notes.Format(sources))
			}
			if got := function(t, res, "f").Body.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWidening(t *testing.T) {
	res, _ := checkWith(t, Options{MaxEnumerated: 1}, `fn f(c: bool) { if (c) { 1 } else { 5 } };`)
	if got := function(t, res, "f").Body.String(); got != "intbig {1..=5}" {
		t.Errorf("expected the hull, got %s", got)
	}
}

func TestInvalidTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"operand mismatch", `fn f { 1 + true };`, "does not match type of right side"},
		{"bool arithmetic", `fn f { true + false };`, "operator `+` is not supported for `bool`"},
		{"non-bool condition", `fn f { if (1) { 1 } else { 2 } };`, "condition must be `bool`"},
		{"missing else", `fn f(c: bool) { if (c) { 1 } };`, "add an else branch"},
		{"return type", `fn f -> bool { 1 };`, "expected `bool` because of return type"},
		{"unknown suffix", `fn f { 1q7 };`, "unknown literal suffix"},
		{"mixed widths", `fn f { 1i32 + 1i64 };`, "`int32` does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, sources := check(t, tt.src)
			if n := count(res, diagnostic.InvalidType); n != 1 {
				t.Fatalf("expected 1 invalid-type note, got %d:\n%s", n, res.Notes.Format(sources))
			}
			if out := res.Notes.Format(sources); !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		`fn f(c: bool) { if (c) { 1; } };`,
		`fn f(x: int32) -> int32 { x };`,
		`fn f(a: bool, b: bool) -> bool { a == b };`,
		`fn f(c: bool) -> floatbig { if (c) { 1.5 } elif (c == false) { 2.5 } else { 0.5 } };`,
		`pub fn f -> void { let x = 1; };`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			res, sources := check(t, src)
			if res.Notes.HasErrors() {
				t.Errorf("unexpected errors:\n%s", res.Notes.Format(sources))
			}
		})
	}
}

func TestUnknownParamType(t *testing.T) {
	res, _ := check(t, `fn f(x: geo::point) { x + 1 };`)
	if n := count(res, diagnostic.UnknownSymbol); n != 1 {
		t.Fatalf("expected 1 unknown-symbol note, got %d", n)
	}
	if n := res.Notes.ErrorCount(); n != 1 {
		t.Errorf("the unknown parameter must not cascade, got %d errors", n)
	}
	sig := function(t, res, "f")
	if len(sig.Params) != 1 || sig.Params[0].Value.Tag != TagUnknown {
		t.Errorf("unexpected params %+v", sig.Params)
	}
}

func TestContextReset(t *testing.T) {
	sources := source.NewSet()
	src := `fn f { missing };`
	id := sources.Add("test.vsv", src)
	prog := parser.Parse(id, src, diagnostic.New())

	ctx := New(Options{})
	first := Verify(ctx, prog)
	if first.Notes.Count() != 1 {
		t.Fatalf("expected 1 note, got %d", first.Notes.Count())
	}

	expectPanic(t, "root scope already open", func() { Verify(ctx, prog) })

	ctx.Reset()
	second := Verify(ctx, prog)
	if second.Notes.Count() != 1 || len(second.Functions) != 1 {
		t.Errorf("expected a fresh run, got %d notes and %d functions", second.Notes.Count(), len(second.Functions))
	}
}

func TestFormatReport(t *testing.T) {
	res, sources := check(t, `fn f(c: bool) { if (1 == 2) { 1 } elif (c) { 2 } else { 3 } };`)
	out := FormatReport(res.Branches, sources)

	for _, want := range []string{
		"Branch Reachability Report",
		"Function: root::f",
		"if at test.vsv:1:17",
		"NEVER",
		"SOMETIMES",
		"Status: 2 of 3 clauses reachable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	if FormatReport(nil, sources) != "" {
		t.Error("expected no report without branches")
	}
}

func TestScopeLookupAfterClose(t *testing.T) {
	s := NewScopes()
	s.OpenRoot("root")
	g := s.Open("child")
	h := g.Handle()
	if err := s.Define(h, "x", Void(source.Range{}), source.Range{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Lookup("x"); !ok {
		t.Fatal("expected x to be visible while the scope is open")
	}

	g.Close()
	if _, ok := s.Lookup("x"); ok {
		t.Error("expected x to be unreachable after close")
	}
	if s.Depth() != 1 || s.OpenGuards() != 0 {
		t.Errorf("expected only the root, got depth %d with %d guards", s.Depth(), s.OpenGuards())
	}
	expectPanic(t, "closed scope", func() { s.LookupIn(h, "x") })

	g.Close()
	if s.OpenGuards() != 0 {
		t.Error("closing twice must not change the guard count")
	}
}

func TestScopeDeferredPop(t *testing.T) {
	s := NewScopes()
	s.OpenRoot("root")
	outer := s.Open("outer")
	s.Define(outer.Handle(), "a", Void(source.Range{}), source.Range{})
	inner := s.Open("inner")

	outer.Close()
	if s.Depth() != 3 {
		t.Fatalf("expected removal to be deferred, depth %d", s.Depth())
	}
	if _, ok := s.Lookup("a"); ok {
		t.Error("released scopes must be skipped by lookup")
	}
	if got := s.QualifiedPath(inner.Handle()); got != "root::outer::inner" {
		t.Errorf("unexpected path %q", got)
	}

	inner.Close()
	if s.Depth() != 1 {
		t.Errorf("expected both scopes popped, depth %d", s.Depth())
	}
}

func TestScopeRootDuplicate(t *testing.T) {
	s := NewScopes()
	root := s.OpenRoot("root")
	first := source.Span(1, 0, 1)
	second := source.Span(1, 10, 11)

	if err := s.Define(root, "f", Void(first), first); err != nil {
		t.Fatal(err)
	}
	err := s.Define(root, "f", Void(second), second)
	dup, ok := err.(*DuplicateError)
	if !ok {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}
	if dup.Previous != first || dup.Current != second {
		t.Errorf("unexpected ranges %+v", dup)
	}
	if sym, _ := s.Lookup("f"); sym.Range != second {
		t.Error("expected the later definition to win")
	}

	g := s.Open("nested")
	defer g.Close()
	if err := s.Define(g.Handle(), "f", Void(first), first); err != nil {
		t.Errorf("nested redefinition must shadow, got %v", err)
	}
}

func TestScopeHandleGeneration(t *testing.T) {
	s := NewScopes()
	s.OpenRoot("root")
	g := s.Open("a")
	stale := g.Handle()
	g.Close()

	fresh := s.Open("b")
	defer fresh.Close()
	if fresh.Handle().slot != stale.slot {
		t.Fatalf("expected the slot to be reused")
	}
	expectPanic(t, "closed scope", func() { s.QualifiedPath(stale) })
	if got := s.QualifiedPath(fresh.Handle()); got != "root::b" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestScopeRootInvariants(t *testing.T) {
	s := NewScopes()
	expectPanic(t, "no root scope", func() { s.Open("x") })
	s.OpenRoot("root")
	expectPanic(t, "root scope already open", func() { s.OpenRoot("again") })

	anon := s.Open("")
	defer anon.Close()
	if got := s.QualifiedPath(anon.Handle()); got != "root" {
		t.Errorf("anonymous scopes must not appear in paths, got %q", got)
	}
}

func TestValueCompatibility(t *testing.T) {
	r := source.Range{}
	i32 := NumberValue(numeric.Int32, constraint.OrderedAny[numeric.Value](), r)
	i64 := NumberValue(numeric.Int64, constraint.OrderedAny[numeric.Value](), r)
	b := BoolValue(constraint.Any[bool](), r)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same width", i32, i32, true},
		{"different width", i32, i64, false},
		{"bool and number", b, i32, false},
		{"unknown left", Unknown(r), i32, true},
		{"unknown right", b, Unknown(r), true},
		{"void", Void(r), Void(r), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compatible(tt.b); got != tt.want {
				t.Errorf("Compatible = %v, want %v", got, tt.want)
			}
		})
	}

	if got := Unknown(r).Combine(i32, 64); got.Tag != TagNumeric || !got.IsFailed() {
		t.Errorf("combining with unknown must keep the kind and fail, got %s", got)
	}
}
