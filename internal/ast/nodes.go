package ast

import (
	"strings"

	"github.com/lhaig/vesuvius/internal/numeric"
	"github.com/lhaig/vesuvius/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	Span() source.Range
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// DeclarationBody is the payload of a top-level declaration
type DeclarationBody interface {
	Node
	declNode()
}

// Program represents one parsed source module
type Program struct {
	Declarations []*Declaration
	Range        source.Range
}

func (p *Program) Span() source.Range { return p.Range }

// HeaderKind names a declaration header such as #[entry]
type HeaderKind int

const (
	HeaderEntry HeaderKind = iota
)

func (k HeaderKind) String() string {
	switch k {
	case HeaderEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Header represents a #[...] attribute preceding a declaration
type Header struct {
	Kind  HeaderKind
	Range source.Range
}

func (h *Header) Span() source.Range { return h.Range }

// Visibility of a top-level declaration. Declarations are private unless
// marked pub.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "priv"
}

// Declaration represents a top-level declaration terminated by ';'
type Declaration struct {
	Headers    []*Header
	Visibility Visibility
	Body       DeclarationBody
	Range      source.Range
}

func (d *Declaration) Span() source.Range { return d.Range }

// EntryHeader returns the first #[entry] header of d, or nil
func (d *Declaration) EntryHeader() *Header {
	for _, h := range d.Headers {
		if h.Kind == HeaderEntry {
			return h
		}
	}
	return nil
}

// ModuleDecl represents a module declaration: mod a::b
type ModuleDecl struct {
	Path  []string
	Range source.Range
}

func (m *ModuleDecl) Span() source.Range { return m.Range }
func (m *ModuleDecl) declNode()          {}

// Name returns the last path segment, the name the module is bound under
func (m *ModuleDecl) Name() string {
	if len(m.Path) == 0 {
		return ""
	}
	return m.Path[len(m.Path)-1]
}

// FunctionDecl represents a function declaration
type FunctionDecl struct {
	Name       string
	NameRange  source.Range
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
	Range      source.Range
}

func (f *FunctionDecl) Span() source.Range { return f.Range }
func (f *FunctionDecl) declNode()          {}

// Param represents a function parameter
type Param struct {
	Name  string
	Type  *TypeRef
	Range source.Range
}

func (p *Param) Span() source.Range { return p.Range }

// TypeRef is an unresolved type descriptor: a builtin name or a module path
type TypeRef struct {
	Path  []string
	Range source.Range
}

func (t *TypeRef) Span() source.Range { return t.Range }

func (t *TypeRef) String() string { return strings.Join(t.Path, "::") }

// Block represents a braced statement list. ReturnsLast is set when the last
// statement has no trailing ';' and so gives the block its value.
type Block struct {
	Statements  []Statement
	ReturnsLast bool
	Range       source.Range
}

func (b *Block) Span() source.Range { return b.Range }

// LetStmt represents a let statement
type LetStmt struct {
	Name      string
	NameRange source.Range
	Value     Expression
	Range     source.Range
}

func (l *LetStmt) Span() source.Range { return l.Range }
func (l *LetStmt) stmtNode()          {}

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	Expr  Expression
	Range source.Range
}

func (e *ExprStmt) Span() source.Range { return e.Range }
func (e *ExprStmt) stmtNode()          {}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	Left    Expression
	Op      numeric.Op
	OpRange source.Range
	Right   Expression
	Range   source.Range
}

func (b *BinaryExpr) Span() source.Range { return b.Range }
func (b *BinaryExpr) exprNode()          {}

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	Inner Expression
	Range source.Range
}

func (p *ParenExpr) Span() source.Range { return p.Range }
func (p *ParenExpr) exprNode()          {}

// IfExpr represents an if/elif/else chain. It is an expression: its value is
// the unified value of its branches.
type IfExpr struct {
	Clauses []*IfClause
	Else    *ElseClause
	Range   source.Range
}

func (i *IfExpr) Span() source.Range { return i.Range }
func (i *IfExpr) exprNode()          {}

// IfClause is the leading if or one elif of an IfExpr
type IfClause struct {
	Condition Expression
	Block     *Block
	Range     source.Range
}

func (c *IfClause) Span() source.Range { return c.Range }

// ElseClause is the trailing else of an IfExpr
type ElseClause struct {
	Block *Block
	Range source.Range
}

func (e *ElseClause) Span() source.Range { return e.Range }

// IntLit represents an integer literal. Suffix selects the width, e.g. u8.
type IntLit struct {
	Digits string
	Suffix string
	Range  source.Range
}

func (i *IntLit) Span() source.Range { return i.Range }
func (i *IntLit) exprNode()          {}

// FloatLit represents a float literal
type FloatLit struct {
	Digits string
	Suffix string
	Range  source.Range
}

func (f *FloatLit) Span() source.Range { return f.Range }
func (f *FloatLit) exprNode()          {}

// BoolLit represents true or false
type BoolLit struct {
	Value bool
	Range source.Range
}

func (b *BoolLit) Span() source.Range { return b.Range }
func (b *BoolLit) exprNode()          {}

// Identifier represents a name reference
type Identifier struct {
	Name  string
	Range source.Range
}

func (i *Identifier) Span() source.Range { return i.Range }
func (i *Identifier) exprNode()          {}
