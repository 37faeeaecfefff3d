package parser

import (
	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/lexer"
	"github.com/lhaig/vesuvius/internal/numeric"
	"github.com/lhaig/vesuvius/internal/source"
)

// New creates a parser over the source of module. Notes are queued on diags.
func New(module source.ModuleID, src string, diags *diagnostic.Queue) *Parser {
	l := lexer.New(src)
	return &Parser{
		tokens: l.Tokenize(),
		pos:    0,
		diags:  diags,
		module: module,
	}
}

// Parse parses a whole source file. Every top-level declaration is
// terminated by ';'. A declaration that fails to parse is skipped.
func Parse(module source.ModuleID, src string, diags *diagnostic.Queue) *ast.Program {
	return New(module, src, diags).Parse()
}

// Parse parses the token stream into a Program AST
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	first := p.current()

	for !p.check(lexer.EOF) {
		start := p.pos
		decl := p.parseDeclaration()
		if decl == nil {
			p.synchronize()
			if p.pos == start {
				p.advance()
			}
			continue
		}
		if _, ok := p.expect(lexer.SEMICOLON); !ok {
			p.synchronize()
		}
		prog.Declarations = append(prog.Declarations, decl)
	}

	prog.Range = source.Span(p.module, first.Start, p.current().End)
	return prog
}

// parseDeclaration parses: header* [pub|priv] (mod ... | fn ...)
func (p *Parser) parseDeclaration() *ast.Declaration {
	start := p.current()
	decl := &ast.Declaration{}

	for p.check(lexer.HASH_BRACKET) {
		h := p.parseHeader()
		if h == nil {
			return nil
		}
		decl.Headers = append(decl.Headers, h)
	}

	switch {
	case p.match(lexer.PUB):
		decl.Visibility = ast.Public
	case p.match(lexer.PRIV):
		decl.Visibility = ast.Private
	}

	switch p.current().Type {
	case lexer.MOD:
		m := p.parseModuleDecl()
		if m == nil {
			return nil
		}
		decl.Body = m
	case lexer.FN:
		fn := p.parseFunctionDecl()
		if fn == nil {
			return nil
		}
		decl.Body = fn
	default:
		p.unexpected(p.current(), "expected a declaration")
		return nil
	}

	decl.Range = p.spanFrom(start)
	return decl
}

// parseHeader parses: #[entry]
func (p *Parser) parseHeader() *ast.Header {
	start := p.advance()
	name, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	if name.Literal != "entry" {
		p.unexpected(name, "unknown declaration header `%s`", name.Literal)
		return nil
	}
	if _, ok := p.expect(lexer.RBRACKET); !ok {
		return nil
	}
	return &ast.Header{Kind: ast.HeaderEntry, Range: p.spanFrom(start)}
}

// parseModuleDecl parses: mod a::b::c
func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	p.advance()
	path, r, ok := p.parsePath()
	if !ok {
		return nil
	}
	return &ast.ModuleDecl{Path: path, Range: r}
}

// parsePath parses: ident (:: ident)*
func (p *Parser) parsePath() ([]string, source.Range, bool) {
	first, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil, source.Range{}, false
	}
	path := []string{first.Literal}
	for p.match(lexer.PATH_SEP) {
		seg, ok := p.expect(lexer.IDENT)
		if !ok {
			return nil, source.Range{}, false
		}
		path = append(path, seg.Literal)
	}
	return path, p.spanFrom(first), true
}

// parseFunctionDecl parses: fn <name>[(<params>)] [-> <type>] { ... }
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.advance()
	name, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	fn := &ast.FunctionDecl{Name: name.Literal, NameRange: p.rangeOf(name)}

	if p.match(lexer.LPAREN) {
		params, ok := p.parseParamList()
		if !ok {
			return nil
		}
		fn.Params = params
	}

	if p.match(lexer.ARROW) {
		fn.ReturnType = p.parseTypeRef()
		if fn.ReturnType == nil {
			return nil
		}
	}

	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	fn.Range = p.spanFrom(start)
	return fn
}

// parseParamList parses: [param (, param)* [,]] )
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	var params []*ast.Param
	for !p.check(lexer.RPAREN) {
		param := p.parseParam()
		if param == nil {
			return nil, false
		}
		params = append(params, param)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil, false
	}
	return params, true
}

// parseParam parses: <name>: <type>
func (p *Parser) parseParam() *ast.Param {
	name, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.COLON); !ok {
		return nil
	}
	typ := p.parseTypeRef()
	if typ == nil {
		return nil
	}
	return &ast.Param{Name: name.Literal, Type: typ, Range: p.spanFrom(name)}
}

// parseTypeRef parses a builtin type name or a module path
func (p *Parser) parseTypeRef() *ast.TypeRef {
	path, r, ok := p.parsePath()
	if !ok {
		return nil
	}
	return &ast.TypeRef{Path: path, Range: r}
}

// parseBlock parses: { [stmt (; stmt)* [;]] }
// A block without a trailing ';' returns the value of its last statement.
func (p *Parser) parseBlock() *ast.Block {
	start, ok := p.expect(lexer.LBRACE)
	if !ok {
		return nil
	}
	block := &ast.Block{}

	for !p.check(lexer.RBRACE) {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		if p.match(lexer.SEMICOLON) {
			continue
		}
		block.ReturnsLast = true
		break
	}

	if _, ok := p.expect(lexer.RBRACE); !ok {
		return nil
	}
	block.Range = p.spanFrom(start)
	return block
}

// parseStatement parses a let statement or an expression statement
func (p *Parser) parseStatement() ast.Statement {
	if p.check(lexer.LET) {
		return p.parseLetStmt()
	}
	start := p.current()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{Expr: expr, Range: p.spanFrom(start)}
}

// parseLetStmt parses: let <name> = <expr>
func (p *Parser) parseLetStmt() ast.Statement {
	start := p.advance()
	name, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN); !ok {
		return nil
	}
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.LetStmt{
		Name:      name.Literal,
		NameRange: p.rangeOf(name),
		Value:     value,
		Range:     p.spanFrom(start),
	}
}

// Operator precedence levels
const (
	precNone = iota
	precComparison
	precAdditive
	precMulti
)

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH:
		return precMulti
	default:
		return precNone
	}
}

var binaryOps = map[lexer.TokenType]numeric.Op{
	lexer.EQ:    numeric.OpEq,
	lexer.NEQ:   numeric.OpNe,
	lexer.GT:    numeric.OpGt,
	lexer.GEQ:   numeric.OpGe,
	lexer.LT:    numeric.OpLt,
	lexer.LEQ:   numeric.OpLe,
	lexer.PLUS:  numeric.OpAdd,
	lexer.MINUS: numeric.OpSub,
	lexer.STAR:  numeric.OpMul,
	lexer.SLASH: numeric.OpDiv,
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePrecedence(precComparison)
}

// parsePrecedence parses left-associative binary operators at or above minPrec
func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseAtom()
	if left == nil {
		return nil
	}

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == precNone || prec < minPrec {
			break
		}

		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{
			Left:    left,
			Op:      binaryOps[op.Type],
			OpRange: p.rangeOf(op),
			Right:   right,
			Range:   left.Span().Join(right.Span()),
		}
	}

	return left
}

// parseAtom parses a parenthesized expression, an if expression or a literal
func (p *Parser) parseAtom() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN); !ok {
			return nil
		}
		return &ast.ParenExpr{Inner: inner, Range: p.spanFrom(tok)}
	case lexer.IF:
		return p.parseIfExpr()
	case lexer.INT_LIT:
		p.advance()
		digits, suffix := lexer.SplitNumber(tok.Literal)
		return &ast.IntLit{Digits: digits, Suffix: suffix, Range: p.rangeOf(tok)}
	case lexer.FLOAT_LIT:
		p.advance()
		digits, suffix := lexer.SplitNumber(tok.Literal)
		return &ast.FloatLit{Digits: digits, Suffix: suffix, Range: p.rangeOf(tok)}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: tok.Type == lexer.TRUE, Range: p.rangeOf(tok)}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Range: p.rangeOf(tok)}
	default:
		p.unexpected(tok, "expected an expression")
		return nil
	}
}

// parseIfExpr parses: if (<expr>) {..} [elif (<expr>) {..}]* [else {..}]
func (p *Parser) parseIfExpr() ast.Expression {
	start := p.current()
	expr := &ast.IfExpr{}

	for len(expr.Clauses) == 0 || p.check(lexer.ELIF) {
		kw := p.advance()
		if _, ok := p.expect(lexer.LPAREN); !ok {
			return nil
		}
		cond := p.parseExpression()
		if cond == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN); !ok {
			return nil
		}
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		expr.Clauses = append(expr.Clauses, &ast.IfClause{Condition: cond, Block: block, Range: p.spanFrom(kw)})
	}

	if p.check(lexer.ELSE) {
		kw := p.advance()
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		expr.Else = &ast.ElseClause{Block: block, Range: p.spanFrom(kw)}
	}

	expr.Range = p.spanFrom(start)
	return expr
}
