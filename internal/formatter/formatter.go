package formatter

import (
	"fmt"
	"strings"

	"github.com/lhaig/vesuvius/internal/ast"
)

// Format takes an AST Program and returns canonical source code.
// Comments are not part of the tree and are dropped.
func Format(prog *ast.Program) string {
	f := &formatter{}
	f.formatProgram(prog)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

func (f *formatter) blankLine() {
	f.sb.WriteString("\n")
}

// --- program-level ---

func (f *formatter) formatProgram(prog *ast.Program) {
	// Module declarations first, grouped, then functions separated by blank lines
	var mods, fns []*ast.Declaration
	for _, decl := range prog.Declarations {
		if _, ok := decl.Body.(*ast.ModuleDecl); ok {
			mods = append(mods, decl)
		} else {
			fns = append(fns, decl)
		}
	}

	for _, decl := range mods {
		f.formatDeclaration(decl)
	}
	for i, decl := range fns {
		if i > 0 || len(mods) > 0 {
			f.blankLine()
		}
		f.formatDeclaration(decl)
	}
}

func (f *formatter) formatDeclaration(decl *ast.Declaration) {
	for _, h := range decl.Headers {
		f.emitf("#[%s]\n", h.Kind)
	}
	if decl.Visibility == ast.Public {
		f.emit("pub ")
	}

	switch body := decl.Body.(type) {
	case *ast.ModuleDecl:
		f.emitf("mod %s", strings.Join(body.Path, "::"))
	case *ast.FunctionDecl:
		f.formatFunctionDecl(body)
	}
	f.emit(";\n")
}

// --- declarations ---

func (f *formatter) formatFunctionDecl(fn *ast.FunctionDecl) {
	f.emitf("fn %s", fn.Name)
	if len(fn.Params) > 0 {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
		}
		f.emitf("(%s)", strings.Join(params, ", "))
	}
	if fn.ReturnType != nil {
		f.emitf(" -> %s", fn.ReturnType)
	}
	f.emit(" ")
	f.emit(f.formatBlock(fn.Body))
}

// formatBlock renders b starting at the current column; the closing brace
// is aligned with the current indent
func (f *formatter) formatBlock(b *ast.Block) string {
	if len(b.Statements) == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	f.indent++
	for i, stmt := range b.Statements {
		sb.WriteString(f.indentStr())
		sb.WriteString(f.formatStmt(stmt))
		if i < len(b.Statements)-1 || !b.ReturnsLast {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	f.indent--
	sb.WriteString(f.indentStr())
	sb.WriteString("}")
	return sb.String()
}

func (f *formatter) formatStmt(s ast.Statement) string {
	switch stmt := s.(type) {
	case *ast.LetStmt:
		return fmt.Sprintf("let %s = %s", stmt.Name, f.formatExpr(stmt.Value))
	case *ast.ExprStmt:
		return f.formatExpr(stmt.Expr)
	default:
		return "/* unknown statement */"
	}
}

// --- expressions ---

// formatExpr formats an expression. Parentheses are kept exactly where the
// source had them, so the printed tree parses back to the same shape.
func (f *formatter) formatExpr(e ast.Expression) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", f.formatExpr(expr.Left), expr.Op, f.formatExpr(expr.Right))
	case *ast.ParenExpr:
		return "(" + f.formatExpr(expr.Inner) + ")"
	case *ast.IfExpr:
		return f.formatIfExpr(expr)
	case *ast.IntLit:
		return expr.Digits + expr.Suffix
	case *ast.FloatLit:
		return expr.Digits + expr.Suffix
	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"
	case *ast.Identifier:
		return expr.Name
	default:
		return "/* unknown expression */"
	}
}

func (f *formatter) formatIfExpr(expr *ast.IfExpr) string {
	var sb strings.Builder
	for i, c := range expr.Clauses {
		if i == 0 {
			sb.WriteString("if (")
		} else {
			sb.WriteString(" elif (")
		}
		sb.WriteString(f.formatExpr(c.Condition))
		sb.WriteString(") ")
		sb.WriteString(f.formatBlock(c.Block))
	}
	if expr.Else != nil {
		sb.WriteString(" else ")
		sb.WriteString(f.formatBlock(expr.Else.Block))
	}
	return sb.String()
}
