// Package compiler ties the stages together: it reads source files, parses
// them, verifies every module and collects the notes.
package compiler

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/config"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/linter"
	"github.com/lhaig/vesuvius/internal/parser"
	"github.com/lhaig/vesuvius/internal/source"
	"github.com/lhaig/vesuvius/internal/verify"
)

// Module is one parsed source file of a program
type Module struct {
	Path     []string // module path, nil for the entry file
	File     string
	ID       source.ModuleID
	Program  *ast.Program
	Verified *verify.Result
}

// Name returns the module path joined with ::, or "" for the entry file
func (m *Module) Name() string {
	return strings.Join(m.Path, "::")
}

// Stage is the wall time spent in one pipeline stage
type Stage struct {
	Name     string
	Duration time.Duration
}

// Result holds the output of a check
type Result struct {
	Sources *source.Set
	Notes   *diagnostic.Queue
	Modules []*Module // dependencies first, entry file last
	Stages  []Stage
}

func newResult() *Result {
	return &Result{Sources: source.NewSet(), Notes: diagnostic.New()}
}

// Entry returns the entry file's module, or nil if nothing was parsed
func (r *Result) Entry() *Module {
	if len(r.Modules) == 0 {
		return nil
	}
	return r.Modules[len(r.Modules)-1]
}

// Branches returns the branch reports of every verified module
func (r *Result) Branches() []verify.BranchReport {
	var out []verify.BranchReport
	for _, m := range r.Modules {
		if m.Verified != nil {
			out = append(out, m.Verified.Branches...)
		}
	}
	return out
}

// timed runs fn and records how long it took
func (r *Result) timed(name string, fn func()) {
	start := time.Now()
	fn()
	r.Stages = append(r.Stages, Stage{Name: name, Duration: time.Since(start)})
}

// Parse runs the parser only.
func Parse(path, src string) *Result {
	res := newResult()
	id := res.Sources.Add(path, src)
	res.timed("parse", func() {
		prog := parser.Parse(id, src, res.Notes)
		res.Modules = append(res.Modules, &Module{File: path, ID: id, Program: prog})
	})
	return res
}

// Check runs parse + verify for a single file without following mod
// declarations. Verification is skipped when parsing failed.
func Check(path, src string, cfg *config.Config) *Result {
	res := Parse(path, src)
	if res.Notes.HasErrors() {
		return res
	}

	res.verifyModule(res.Entry(), cfg, cfg.Project.Name)
	res.finish(cfg)
	return res
}

// Lint runs parse + lint for a single file.
func Lint(path, src string) *Result {
	res := Parse(path, src)
	if res.Notes.HasErrors() {
		return res
	}
	res.timed("lint", func() {
		res.Notes.Merge(linter.Lint(res.Entry().Program))
	})
	return res
}

// CheckFile reads path and checks it as a single file.
func CheckFile(path string, cfg *config.Config) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Check(path, string(data), cfg), nil
}

// CheckProject runs the multi-file pipeline: discover -> sort -> verify.
// entryPath is the path to the entry file; every mod declaration is
// resolved relative to its directory. Each module is verified in its own
// context, dependencies first.
func CheckProject(entryPath string, cfg *config.Config) (*Result, error) {
	res := newResult()

	// Create module registry
	registry, err := NewModuleRegistry(entryPath, res.Sources)
	if err != nil {
		return nil, err
	}

	// Discover all dependencies
	var discoverErr error
	res.timed("discover", func() {
		discoverErr = registry.DiscoverDependencies(res.Notes)
	})
	if discoverErr != nil {
		return nil, discoverErr
	}

	// Topological sort
	sortedPaths, err := registry.TopologicalSort()
	if err != nil {
		entry := registry.GetModule(registry.entryPath)
		res.Modules = append(res.Modules, entry)
		res.Notes.Enqueue(diagnostic.Error, diagnostic.ModuleNotFound, diagnostic.Always,
			diagnostic.Text("%s", err))
		return res, nil
	}
	for _, p := range sortedPaths {
		res.Modules = append(res.Modules, registry.GetModule(p))
	}
	if res.Notes.HasErrors() {
		return res, nil
	}

	for _, m := range res.Modules {
		root := cfg.Project.Name
		if m.Path != nil {
			root = m.Name()
		}
		res.verifyModule(m, cfg, root)
	}
	res.finish(cfg)
	return res, nil
}

// verifyModule runs the verifier on m in a fresh context and merges its notes
func (r *Result) verifyModule(m *Module, cfg *config.Config, root string) {
	r.timed("verify "+r.Sources.Module(m.ID).Path, func() {
		ctx := verify.New(verify.Options{
			MaxEnumerated: cfg.Verify.MaxEnumerated,
			RootName:      root,
		})
		m.Verified = verify.Verify(ctx, m.Program)
		r.Notes.Merge(ctx.Notes)
	})
}

// finish applies the project-wide configuration checks
func (r *Result) finish(cfg *config.Config) {
	cfg.Check(r.Notes)
	if cfg.Verify.WarningsAsErrors {
		r.Notes.PromoteWarnings()
	}
}
