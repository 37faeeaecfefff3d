package formatter

import (
	"strings"
	"testing"

	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/parser"
	"github.com/lhaig/vesuvius/internal/source"
)

// helper: parse source, format, return formatted string
func formatSource(t *testing.T, src string) string {
	t.Helper()
	sources := source.NewSet()
	id := sources.Add("<test>", src)
	notes := diagnostic.New()
	prog := parser.Parse(id, src, notes)
	if notes.HasErrors() {
		t.Fatalf("parse error: %s", notes.Format(sources))
	}
	return Format(prog)
}

// --- Per-construct tests ---

func TestFormatModuleDecl(t *testing.T) {
	got := formatSource(t, `fn main { 0 }; mod   std :: math ;`)
	want := "mod std::math;\n\nfn main {\n    0\n};\n"
	if got != want {
		t.Errorf("expected module decls first:\n%q\ngot:\n%q", want, got)
	}
}

func TestFormatFunctionSignature(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`fn a() { 1 };`, "fn a {"},
		{`fn b(x:int32,y : u8,) { x };`, "fn b(x: int32, y: u8) {"},
		{`fn c -> bool { true };`, "fn c -> bool {"},
		{`#[entry] pub fn main() -> int32 { 0i32 };`, "#[entry]\npub fn main -> int32 {"},
		{`fn noop { };`, "fn noop {};"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := formatSource(t, tt.src)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, got)
			}
		})
	}
}

func TestFormatBlockSemicolons(t *testing.T) {
	got := formatSource(t, `fn f { let x = 1 ; x+2 };
fn g { 1; };`)
	want := `fn f {
    let x = 1;
    x + 2
};

fn g {
    1;
};
`
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatIfChain(t *testing.T) {
	got := formatSource(t, `fn pick(c: bool) -> int32 { let v = if (c) { 1i32 } elif ((c)) { 2i32 } else { if (true) { 3i32 } else { 4i32 } }; v };`)
	want := `fn pick(c: bool) -> int32 {
    let v = if (c) {
        1i32
    } elif ((c)) {
        2i32
    } else {
        if (true) {
            3i32
        } else {
            4i32
        }
    };
    v
};
`
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatLiterals(t *testing.T) {
	got := formatSource(t, `fn f { (1_000u16 + 2) * 3 == 2.5f64 != false };`)
	if !strings.Contains(got, "(1_000u16 + 2) * 3 == 2.5f64 != false") {
		t.Errorf("unexpected expression in:\n%s", got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	src := `mod util;
#[entry]
fn main -> int32 {
  let a = 1i32; // comment
  /* block */ if (a > 0i32) { a } else { 0i32 }
};
pub fn helper(x: int64) { x * 2i64; };`

	once := formatSource(t, src)
	twice := formatSource(t, once)
	if once != twice {
		t.Errorf("formatting is not stable:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
	if strings.Contains(once, "comment") {
		t.Error("comments should be dropped")
	}
}
