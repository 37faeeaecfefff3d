package linter

import (
	"unicode"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/diagnostic"
)

// Linter performs style and best-practice checks on an AST program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Program
	diag *diagnostic.Queue
}

// Lint runs all lint rules on the given program and returns the notes
func Lint(prog *ast.Program) *diagnostic.Queue {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	for _, decl := range prog.Declarations {
		switch body := decl.Body.(type) {
		case *ast.FunctionDecl:
			l.lintFunction(decl, body)
		case *ast.ModuleDecl:
			l.lintModule(body)
		}
	}

	return l.diag
}

func (l *Linter) warn(r ast.Node, format string, args ...any) {
	l.diag.Enqueue(diagnostic.Warning, diagnostic.Style, diagnostic.Always,
		diagnostic.At(r.Span(), format, args...))
}

func (l *Linter) lintFunction(decl *ast.Declaration, fn *ast.FunctionDecl) {
	if !isSnakeCase(fn.Name) {
		l.diag.Enqueue(diagnostic.Warning, diagnostic.Style, diagnostic.Always,
			diagnostic.At(fn.NameRange, "function `%s` should use snake_case naming", fn.Name))
	}
	if len(fn.Body.Statements) == 0 {
		l.warn(fn.Body, "function `%s` has an empty body", fn.Name)
	}
	if decl.EntryHeader() != nil && len(fn.Params) > 0 {
		l.warn(fn.Params[0], "entry point `%s` takes parameters that nothing can supply", fn.Name)
	}

	used := make(map[string]bool)
	collectUsedNames(fn.Body, used)
	for _, p := range fn.Params {
		if !used[p.Name] {
			l.warn(p, "parameter `%s` in `%s` is never used", p.Name, fn.Name)
		}
	}
	l.checkUnusedVariables(fn.Body, used)
}

// lintModule checks every segment of a module path
func (l *Linter) lintModule(m *ast.ModuleDecl) {
	for _, seg := range m.Path {
		if !isSnakeCase(seg) {
			l.warn(m, "module `%s` should use snake_case naming", seg)
			return
		}
	}
}

// checkUnusedVariables warns about let bindings that are never read,
// including those in nested if blocks
func (l *Linter) checkUnusedVariables(b *ast.Block, used map[string]bool) {
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			if !used[s.Name] && s.Name[0] != '_' {
				l.diag.Enqueue(diagnostic.Warning, diagnostic.Style, diagnostic.Always,
					diagnostic.At(s.NameRange, "variable `%s` is declared but never used", s.Name))
			}
			l.checkUnusedInExpr(s.Value, used)
		case *ast.ExprStmt:
			l.checkUnusedInExpr(s.Expr, used)
		}
	}
}

func (l *Linter) checkUnusedInExpr(expr ast.Expression, used map[string]bool) {
	switch e := expr.(type) {
	case *ast.IfExpr:
		for _, c := range e.Clauses {
			l.checkUnusedVariables(c.Block, used)
		}
		if e.Else != nil {
			l.checkUnusedVariables(e.Else.Block, used)
		}
	case *ast.ParenExpr:
		l.checkUnusedInExpr(e.Inner, used)
	case *ast.BinaryExpr:
		l.checkUnusedInExpr(e.Left, used)
		l.checkUnusedInExpr(e.Right, used)
	}
}

// --- Name collection helpers ---

// collectUsedNames walks a block and collects every identifier that is
// read. Names are not scoped, so a read of a shadowing binding also counts
// for the shadowed one.
func collectUsedNames(b *ast.Block, used map[string]bool) {
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			// The declared name is not a read
			collectUsedNamesFromExpr(s.Value, used)
		case *ast.ExprStmt:
			collectUsedNamesFromExpr(s.Expr, used)
		}
	}
}

func collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		collectUsedNamesFromExpr(e.Left, used)
		collectUsedNamesFromExpr(e.Right, used)
	case *ast.ParenExpr:
		collectUsedNamesFromExpr(e.Inner, used)
	case *ast.IfExpr:
		for _, c := range e.Clauses {
			collectUsedNamesFromExpr(c.Condition, used)
			collectUsedNames(c.Block, used)
		}
		if e.Else != nil {
			collectUsedNames(e.Else.Block, used)
		}
	}
}

// --- Naming convention helpers ---

// isSnakeCase returns true if the name follows snake_case conventions:
// lowercase letters, digits, and underscores only, not starting with a digit.
func isSnakeCase(name string) bool {
	if len(name) == 0 || unicode.IsDigit(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLower(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
