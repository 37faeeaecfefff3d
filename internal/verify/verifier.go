// Package verify walks a parsed program and checks it without running it.
// Every expression is reduced to a Value whose constraint describes what it
// can be; conditions are classified against those constraints to find dead
// and certain branches.
package verify

import (
	"errors"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/source"
)

// EntryPoint is the function marked #[entry]
type EntryPoint struct {
	Name   string
	Path   string // qualified, e.g. "root::main"
	Header ast.Header
	Decl   *ast.FunctionDecl
}

// Param is one resolved function parameter
type Param struct {
	Name  string
	Value Value
}

// FunctionSignature is the resolved kind of a function and the value its
// body produces
type FunctionSignature struct {
	Name       string
	Path       string
	Visibility ast.Visibility
	Params     []Param
	Return     Value
	Body       Value
	Decl       *ast.FunctionDecl
}

// Result is what a verification run hands to later stages
type Result struct {
	Program   *ast.Program
	Functions []FunctionSignature
	Entry     *EntryPoint
	Branches  []BranchReport
	Notes     *diagnostic.Queue
}

// Verify checks prog. Declarations are registered in a first pass so bodies
// can refer to functions declared later; bodies are checked in a second
// pass. Problems are queued on ctx.Notes. A context verifies one program;
// call Reset before reusing it.
func Verify(ctx *VerificationContext, prog *ast.Program) *Result {
	ctx.Scopes.OpenRoot(ctx.Options.RootName)

	for _, decl := range prog.Declarations {
		ctx.register(decl)
	}
	for _, decl := range prog.Declarations {
		ctx.checkContents(decl)
	}

	return &Result{
		Program:   prog,
		Functions: ctx.functions,
		Entry:     ctx.entry,
		Branches:  ctx.branches,
		Notes:     ctx.Notes,
	}
}

// register runs pass 1 for one declaration
func (ctx *VerificationContext) register(decl *ast.Declaration) {
	if ctx.state(decl) != unregistered {
		panic("verify: declaration registered twice")
	}
	root := ctx.Scopes.Root()

	switch body := decl.Body.(type) {
	case *ast.ModuleDecl:
		// Modules are resolved by the loader; the last path segment is
		// bound so references to it are not reported as unknown.
		ctx.define(root, body.Name(), Unknown(body.Range), body.Range)
		if h := decl.EntryHeader(); h != nil {
			ctx.Notes.Enqueue(diagnostic.Error, diagnostic.InvalidType, diagnostic.Always,
				diagnostic.At(h.Range, "only functions can be entry points"),
				diagnostic.At(body.Range, "this is a module"))
		}
	case *ast.FunctionDecl:
		ctx.define(root, body.Name, FunctionValue(body), body.NameRange)
		if h := decl.EntryHeader(); h != nil {
			ctx.registerEntry(*h, body)
		}
	default:
		ctx.Notes.Errorf(diagnostic.Internal, decl.Range, "unsupported declaration %T", decl.Body)
	}

	ctx.advance(decl, registered)
}

func (ctx *VerificationContext) registerEntry(h ast.Header, fn *ast.FunctionDecl) {
	if ctx.entry != nil {
		ctx.Notes.Enqueue(diagnostic.Error, diagnostic.DuplicateEntryPoint, diagnostic.Always,
			diagnostic.At(h.Range, "entry point declared again here"),
			diagnostic.At(ctx.entry.Header.Range, "first entry point declared here"),
			diagnostic.Text("`%s` remains the entry point", ctx.entry.Path))
		return
	}
	ctx.entry = &EntryPoint{
		Name:   fn.Name,
		Path:   ctx.Scopes.QualifiedPath(ctx.Scopes.Root()) + "::" + fn.Name,
		Header: h,
		Decl:   fn,
	}
}

// define binds name in scope h and reports a root-scope duplicate
func (ctx *VerificationContext) define(h ScopeHandle, name string, v Value, r source.Range) {
	err := ctx.Scopes.Define(h, name, v, r)
	if err == nil {
		return
	}
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		panic(err)
	}
	ctx.Notes.Enqueue(diagnostic.Error, diagnostic.DuplicateDefinition, diagnostic.Always,
		diagnostic.At(dup.Current, "`%s` defined again here", name),
		diagnostic.At(dup.Previous, "previous definition here"),
		diagnostic.Text("the later definition replaces the earlier one"))
}

// checkContents runs pass 2 for one declaration
func (ctx *VerificationContext) checkContents(decl *ast.Declaration) {
	if ctx.state(decl) != registered {
		panic("verify: contents checked before registration")
	}
	if fn, ok := decl.Body.(*ast.FunctionDecl); ok {
		ctx.checkFunction(decl, fn)
	}
	ctx.advance(decl, contentsChecked)
}

func (ctx *VerificationContext) checkFunction(decl *ast.Declaration, fn *ast.FunctionDecl) {
	g := ctx.Scopes.Open(fn.Name)
	defer g.Close()

	sig := FunctionSignature{
		Name:       fn.Name,
		Path:       ctx.Scopes.QualifiedPath(g.Handle()),
		Visibility: decl.Visibility,
		Decl:       fn,
	}

	for _, p := range fn.Params {
		v := ctx.resolve(p.Type).WithOrigin(p.Range)
		ctx.define(g.Handle(), p.Name, v, p.Range)
		sig.Params = append(sig.Params, Param{Name: p.Name, Value: v})
	}

	sig.Body = ctx.evalBlock(fn.Body)
	sig.Return = Void(fn.NameRange)

	if fn.ReturnType != nil {
		sig.Return = ctx.resolve(fn.ReturnType)
		if !sig.Return.Compatible(sig.Body) {
			ctx.Notes.Enqueue(diagnostic.Error, diagnostic.InvalidType, diagnostic.Always,
				diagnostic.At(fn.Body.Range, "block produces `%s`", sig.Body.TypeName()),
				diagnostic.At(fn.ReturnType.Range, "expected `%s` because of return type", sig.Return.TypeName()))
		}
	}

	ctx.functions = append(ctx.functions, sig)
}

// resolve turns a type descriptor into an unconstrained value, reporting
// names that are not builtin types
func (ctx *VerificationContext) resolve(t *ast.TypeRef) Value {
	v, ok := resolveType(t)
	if !ok {
		ctx.Notes.Errorf(diagnostic.UnknownSymbol, t.Range, "unknown type `%s`", t.String())
		return Unknown(t.Range)
	}
	return v
}

// evalBlock evaluates the statements of b in a fresh anonymous scope
func (ctx *VerificationContext) evalBlock(b *ast.Block) Value {
	g := ctx.Scopes.Open("")
	defer g.Close()

	result := Void(b.Range)
	for i, stmt := range b.Statements {
		v := ctx.evalStatement(stmt)
		if b.ReturnsLast && i == len(b.Statements)-1 {
			result = v
		}
	}
	return result
}

func (ctx *VerificationContext) evalStatement(stmt ast.Statement) Value {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		v := ctx.evalExpr(s.Value)
		ctx.define(ctx.Scopes.Current(), s.Name, v, s.NameRange)
		return Void(s.Range)
	case *ast.ExprStmt:
		return ctx.evalExpr(s.Expr)
	default:
		ctx.Notes.Errorf(diagnostic.Internal, stmt.Span(), "unsupported statement %T", stmt)
		return Unknown(stmt.Span())
	}
}
