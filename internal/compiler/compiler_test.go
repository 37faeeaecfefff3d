package compiler

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lhaig/vesuvius/internal/config"
	"github.com/lhaig/vesuvius/internal/diagnostic"
)

func testConfig(name string) *config.Config {
	cfg := config.Default()
	cfg.Project.Name = name
	return cfg
}

func TestCheckValidProgram(t *testing.T) {
	src := `#[entry] fn main -> int32 {
    let x = 2i32;
    x + 1i32
};`

	res := Check("main.vsv", src, testConfig("main"))
	if res.Notes.HasErrors() {
		t.Fatalf("Expected no errors, got:\n%s", res.Notes.Format(res.Sources))
	}

	entry := res.Entry()
	if entry == nil || entry.Verified == nil {
		t.Fatal("Expected a verified entry module")
	}
	if entry.Verified.Entry == nil || entry.Verified.Entry.Path != "main::main" {
		t.Errorf("Expected entry point main::main, got %+v", entry.Verified.Entry)
	}
}

func TestCheckParseErrorSkipsVerify(t *testing.T) {
	res := Check("main.vsv", `fn main { let = 1; };`, testConfig("main"))
	if !res.Notes.HasErrors() {
		t.Fatal("Expected parse errors")
	}
	if res.Entry().Verified != nil {
		t.Error("Expected verification to be skipped on parse errors")
	}
	for _, s := range res.Stages {
		if strings.HasPrefix(s.Name, "verify") {
			t.Errorf("unexpected stage %q", s.Name)
		}
	}
}

func TestCheckVerifyError(t *testing.T) {
	res := Check("main.vsv", `fn main { y };`, testConfig("main"))
	if n := len(res.Notes.OfKind(diagnostic.UnknownSymbol)); n != 1 {
		t.Errorf("Expected 1 unknown-symbol note, got %d", n)
	}
}

func TestCheckWarningsAsErrors(t *testing.T) {
	src := `fn main -> int32 { if (1 == 1) { 1i32 } else { 2i32 } };`

	res := Check("main.vsv", src, testConfig("main"))
	if res.Notes.HasErrors() || res.Notes.WarningCount() == 0 {
		t.Fatalf("Expected only warnings, got:\n%s", res.Notes.Format(res.Sources))
	}

	cfg := testConfig("main")
	cfg.Verify.WarningsAsErrors = true
	res = Check("main.vsv", src, cfg)
	if !res.Notes.HasErrors() || res.Notes.WarningCount() != 0 {
		t.Errorf("Expected warnings promoted to errors, got:\n%s", res.Notes.Format(res.Sources))
	}
}

func TestCheckUnstableVersion(t *testing.T) {
	cfg := testConfig("main")
	cfg.Project.Version = "v0.3.0"
	res := Check("main.vsv", `fn main { 1 };`, cfg)
	if n := len(res.Notes.OfKind(diagnostic.UnstableVersion)); n != 1 {
		t.Errorf("Expected 1 unstable-version note, got %d", n)
	}
}

func TestCheckBranches(t *testing.T) {
	src := `fn pick(c: bool) -> int32 {
    if (c) { 1i32 } elif (1 == 2) { 2i32 } else { 3i32 }
};`
	res := Check("main.vsv", src, testConfig("main"))
	branches := res.Branches()
	if len(branches) != 3 {
		t.Fatalf("Expected 3 branch reports, got %d", len(branches))
	}
	if branches[1].Evaluated {
		t.Error("Expected the never-taken elif not to be evaluated")
	}
}

func TestLint(t *testing.T) {
	res := Lint("main.vsv", `fn doThing { };`)
	if res.Notes.HasErrors() {
		t.Fatalf("lint must not produce errors:\n%s", res.Notes.Format(res.Sources))
	}
	if n := len(res.Notes.OfKind(diagnostic.Style)); n != 2 {
		t.Errorf("Expected 2 style notes, got %d", n)
	}
}

func TestParseOnly(t *testing.T) {
	res := Parse("main.vsv", `fn a { 1 }; fn b { 2 };`)
	if res.Notes.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", res.Notes.Format(res.Sources))
	}
	if n := len(res.Entry().Program.Declarations); n != 2 {
		t.Errorf("Expected 2 declarations, got %d", n)
	}
	if len(res.Stages) != 1 || res.Stages[0].Name != "parse" {
		t.Errorf("Expected a single parse stage, got %+v", res.Stages)
	}
}

func TestCheckFileMissing(t *testing.T) {
	if _, err := CheckFile(filepath.Join(t.TempDir(), "none.vsv"), testConfig("none")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestCheckProject(t *testing.T) {
	tmpDir := t.TempDir()
	entryPath := writeSourceFile(t, tmpDir, "main.vsv", `mod std::math;
#[entry] fn main -> int32 { 0i32 };`)
	writeSourceFile(t, tmpDir, "std/math.vsv", `fn half -> int32 { 4i32 / 0i32 };`)

	res, err := CheckProject(entryPath, testConfig("app"))
	if err != nil {
		t.Fatalf("CheckProject: %v", err)
	}
	if len(res.Modules) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(res.Modules))
	}

	math := res.Modules[0]
	if math.Name() != "std::math" || math.Verified == nil {
		t.Fatalf("Expected std::math verified first, got %q", math.Name())
	}
	if got := math.Verified.Functions[0].Path; got != "std::math::half" {
		t.Errorf("Expected path std::math::half, got %q", got)
	}
	if got := res.Entry().Verified.Entry.Path; got != "app::main" {
		t.Errorf("Expected entry app::main, got %q", got)
	}

	// the division by zero inside std::math is reported against its file
	broken := res.Notes.OfKind(diagnostic.BoundBroken)
	if len(broken) != 1 {
		t.Fatalf("Expected 1 bound-broken note, got %d", len(broken))
	}
	l, _ := broken[0].Primary()
	if got := res.Sources.Module(l.Range.Module).Path; got != filepath.Join("std", "math.vsv") {
		t.Errorf("Expected the note in std/math.vsv, got %q", got)
	}
}

func TestCheckProjectCycle(t *testing.T) {
	tmpDir := t.TempDir()
	entryPath := writeSourceFile(t, tmpDir, "main.vsv", `mod a;`)
	writeSourceFile(t, tmpDir, "a.vsv", `mod main;`)

	res, err := CheckProject(entryPath, testConfig("main"))
	if err != nil {
		t.Fatalf("CheckProject: %v", err)
	}
	found := res.Notes.OfKind(diagnostic.ModuleNotFound)
	if len(found) != 1 || !strings.Contains(found[0].Title()+labelText(found[0]), "cycle") {
		t.Errorf("Expected a cycle note, got:\n%s", res.Notes.Format(res.Sources))
	}
	if res.Entry() == nil {
		t.Error("Expected the entry module to be kept")
	}
}

func labelText(n diagnostic.Note) string {
	var sb strings.Builder
	for _, l := range n.Labels {
		sb.WriteString(l.Message)
	}
	return sb.String()
}
