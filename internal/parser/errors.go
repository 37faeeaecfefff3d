package parser

import (
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/lexer"
	"github.com/lhaig/vesuvius/internal/source"
)

// syncTokens are tokens the parser can synchronize to after an error
var syncTokens = map[lexer.TokenType]bool{
	lexer.FN:           true,
	lexer.MOD:          true,
	lexer.PUB:          true,
	lexer.PRIV:         true,
	lexer.HASH_BRACKET: true,
	lexer.EOF:          true,
}

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Queue
	module source.ModuleID
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// previous returns the last consumed token
func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return p.current()
	}
	return p.tokens[p.pos-1]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise reports an error
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type != tt {
		p.unexpected(tok, "expected %s", describe(tt))
		return tok, false
	}
	return p.advance(), true
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// unexpected reports tok as an unexpected token
func (p *Parser) unexpected(tok lexer.Token, format string, args ...any) {
	found := describe(tok.Type)
	if tok.Type == lexer.ILLEGAL {
		found = "`" + tok.Literal + "`"
	}
	p.diags.Enqueue(diagnostic.Error, diagnostic.UnexpectedToken, diagnostic.Always,
		diagnostic.At(p.rangeOf(tok), format, args...),
		diagnostic.Text("found %s", found))
}

// synchronize skips tokens until the end of the current declaration.
// A ';' at brace depth zero is consumed.
func (p *Parser) synchronize() {
	depth := 0
	for !p.check(lexer.EOF) {
		switch p.current().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth > 0 {
				depth--
			}
		case lexer.SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		default:
			if depth == 0 && syncTokens[p.current().Type] {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) rangeOf(tok lexer.Token) source.Range {
	return source.Span(p.module, tok.Start, tok.End)
}

// spanFrom covers from the start of tok to the end of the last consumed token
func (p *Parser) spanFrom(tok lexer.Token) source.Range {
	end := p.previous().End
	if end < tok.Start {
		end = tok.End
	}
	return source.Span(p.module, tok.Start, end)
}

var tokenText = map[lexer.TokenType]string{
	lexer.EOF:          "end of file",
	lexer.IDENT:        "identifier",
	lexer.INT_LIT:      "integer literal",
	lexer.FLOAT_LIT:    "float literal",
	lexer.FN:           "`fn`",
	lexer.MOD:          "`mod`",
	lexer.LET:          "`let`",
	lexer.IF:           "`if`",
	lexer.ELIF:         "`elif`",
	lexer.ELSE:         "`else`",
	lexer.PUB:          "`pub`",
	lexer.PRIV:         "`priv`",
	lexer.TRUE:         "`true`",
	lexer.FALSE:        "`false`",
	lexer.PLUS:         "`+`",
	lexer.MINUS:        "`-`",
	lexer.STAR:         "`*`",
	lexer.SLASH:        "`/`",
	lexer.EQ:           "`==`",
	lexer.NEQ:          "`!=`",
	lexer.LT:           "`<`",
	lexer.GT:           "`>`",
	lexer.LEQ:          "`<=`",
	lexer.GEQ:          "`>=`",
	lexer.ASSIGN:       "`=`",
	lexer.ARROW:        "`->`",
	lexer.LPAREN:       "`(`",
	lexer.RPAREN:       "`)`",
	lexer.LBRACE:       "`{`",
	lexer.RBRACE:       "`}`",
	lexer.HASH_BRACKET: "`#[`",
	lexer.RBRACKET:     "`]`",
	lexer.COMMA:        "`,`",
	lexer.COLON:        "`:`",
	lexer.PATH_SEP:     "`::`",
	lexer.SEMICOLON:    "`;`",
}

func describe(tt lexer.TokenType) string {
	if s, ok := tokenText[tt]; ok {
		return s
	}
	return tt.String()
}
