package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/parser"
	"github.com/lhaig/vesuvius/internal/source"
)

// Extension is the file extension of source files
const Extension = ".vsv"

// ModuleRegistry manages parsed modules and their dependency graph.
// It discovers all transitive mod declarations from an entry file using BFS,
// then provides topological ordering with cycle detection.
type ModuleRegistry struct {
	modules      map[string]*Module  // absolute file path -> parsed module
	dependencies map[string][]string // absolute file path -> declared module file paths
	entryPath    string              // absolute path to the entry point file
	projectRoot  string              // directory containing the entry file
	sources      *source.Set
}

// NewModuleRegistry creates a new registry rooted at the given entry file.
// The entryPath is resolved to an absolute path, and projectRoot is set to
// the directory containing the entry file.
func NewModuleRegistry(entryPath string, sources *source.Set) (*ModuleRegistry, error) {
	absPath, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry path: %w", err)
	}

	return &ModuleRegistry{
		modules:      make(map[string]*Module),
		dependencies: make(map[string][]string),
		entryPath:    absPath,
		projectRoot:  filepath.Dir(absPath),
		sources:      sources,
	}, nil
}

// DiscoverDependencies performs BFS from the entry file, parsing each
// discovered file and following its mod declarations. Parse errors and
// missing module files are queued on notes; an unreadable entry file is
// returned as an error.
func (r *ModuleRegistry) DiscoverDependencies(notes *diagnostic.Queue) error {
	type pending struct {
		file string
		path []string
	}
	queue := []pending{{file: r.entryPath}}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if visited[next.file] {
			continue
		}
		visited[next.file] = true

		// Read source from disk
		data, err := os.ReadFile(next.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", next.file, err)
		}
		src := string(data)

		id := r.sources.Add(r.displayPath(next.file), src)
		prog := parser.Parse(id, src, notes)
		r.modules[next.file] = &Module{Path: next.path, File: next.file, ID: id, Program: prog}

		var deps []string
		for _, decl := range prog.Declarations {
			mod, ok := decl.Body.(*ast.ModuleDecl)
			if !ok {
				continue
			}
			resolved := resolveModulePath(mod.Path, r.projectRoot)

			if _, err := os.Stat(resolved); err != nil {
				notes.Enqueue(diagnostic.Error, diagnostic.ModuleNotFound, diagnostic.Always,
					diagnostic.At(mod.Range, "no file for module `%s`", strings.Join(mod.Path, "::")),
					diagnostic.Text("expected %s", r.displayPath(resolved)))
				continue
			}

			deps = append(deps, resolved)

			if !visited[resolved] {
				queue = append(queue, pending{file: resolved, path: mod.Path})
			}
		}
		r.dependencies[next.file] = deps
	}

	return nil
}

// TopologicalSort returns files in dependency order (dependencies first,
// entry file last). Returns an error if a module cycle is detected,
// with a clear message showing the cycle path.
func (r *ModuleRegistry) TopologicalSort() ([]string, error) {
	var sorted []string
	visiting := make(map[string]bool) // recursion stack (currently being visited)
	visited := make(map[string]bool)  // completed nodes

	var visit func(path string, stack []string) error
	visit = func(path string, stack []string) error {
		if visiting[path] {
			// Found cycle: build cycle path from the stack
			cycleStart := 0
			for i, p := range stack {
				if p == path {
					cycleStart = i
					break
				}
			}
			cyclePath := append(stack[cycleStart:], path)
			// Use base names for readability
			var names []string
			for _, p := range cyclePath {
				names = append(names, filepath.Base(p))
			}
			return fmt.Errorf("module cycle detected: %s", strings.Join(names, " -> "))
		}
		if visited[path] {
			return nil
		}

		visiting[path] = true
		stack = append(stack, path)

		for _, dep := range r.dependencies[path] {
			if err := visit(dep, stack); err != nil {
				return err
			}
		}

		visiting[path] = false
		visited[path] = true
		sorted = append(sorted, path)
		return nil
	}

	// Start from the entry path to ensure deterministic ordering
	if err := visit(r.entryPath, nil); err != nil {
		return nil, err
	}

	return sorted, nil
}

// GetModule returns the parsed module for a given absolute file path,
// or nil if the path has not been discovered.
func (r *ModuleRegistry) GetModule(path string) *Module {
	return r.modules[path]
}

// displayPath shortens path relative to the project root for notes
func (r *ModuleRegistry) displayPath(path string) string {
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// resolveModulePath maps a module path to its file relative to the project
// root. For example, std::math resolves to "/project/root/std/math.vsv".
func resolveModulePath(path []string, projectRoot string) string {
	return filepath.Clean(filepath.Join(projectRoot, filepath.Join(path...)+Extension))
}
