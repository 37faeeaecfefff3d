package lexer

// Lexer scans Vesuvius source code and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// advance consumes the current char, keeping line tracking
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readChar()
}

// skipTrivia skips whitespace and comments. It reports false if a block
// comment runs to the end of the input.
func (l *Lexer) skipTrivia() bool {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.advance()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.advance()
			}
		case l.ch == '/' && l.peekChar() == '*':
			if !l.skipBlockComment() {
				return false
			}
		default:
			return true
		}
	}
	return true
}

// skipBlockComment skips a /* */ comment. Block comments nest.
func (l *Lexer) skipBlockComment() bool {
	depth := 0
	for !l.atEOF() {
		switch {
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.advance()
			l.advance()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.advance()
			l.advance()
			if depth == 0 {
				return true
			}
		default:
			l.advance()
		}
	}
	return false
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a numeric literal with an optional width suffix
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	tokenType := INT_LIT

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = FLOAT_LIT
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	// suffix such as u8 or f64
	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[position:l.position], tokenType
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	if !l.skipTrivia() {
		return Token{Type: ILLEGAL, Literal: "unterminated block comment", Line: l.line, Column: l.column, Start: l.position, End: l.position}
	}

	tok := Token{Line: l.line, Column: l.column, Start: l.position}
	single := func(t TokenType) {
		tok.Type = t
		tok.Literal = string(l.ch)
	}
	double := func(t TokenType) {
		tok.Type = t
		tok.Literal = l.input[l.position : l.position+2]
		l.readChar()
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			double(EQ)
		} else {
			single(ASSIGN)
		}
	case '!':
		if l.peekChar() == '=' {
			double(NEQ)
		} else {
			single(ILLEGAL)
		}
	case '<':
		if l.peekChar() == '=' {
			double(LEQ)
		} else {
			single(LT)
		}
	case '>':
		if l.peekChar() == '=' {
			double(GEQ)
		} else {
			single(GT)
		}
	case '-':
		if l.peekChar() == '>' {
			double(ARROW)
		} else {
			single(MINUS)
		}
	case ':':
		if l.peekChar() == ':' {
			double(PATH_SEP)
		} else {
			single(COLON)
		}
	case '#':
		if l.peekChar() == '[' {
			double(HASH_BRACKET)
		} else {
			single(ILLEGAL)
		}
	case '+':
		single(PLUS)
	case '*':
		single(STAR)
	case '/':
		single(SLASH)
	case '(':
		single(LPAREN)
	case ')':
		single(RPAREN)
	case '{':
		single(LBRACE)
	case '}':
		single(RBRACE)
	case ']':
		single(RBRACKET)
	case ',':
		single(COMMA)
	case ';':
		single(SEMICOLON)
	case 0:
		if l.atEOF() {
			tok.Type = EOF
			tok.End = l.position
			return tok
		}
		single(ILLEGAL)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			tok.End = l.position
			return tok
		} else if isDigit(l.ch) {
			tok.Literal, tok.Type = l.readNumber()
			tok.End = l.position
			return tok
		}
		single(ILLEGAL)
	}

	l.readChar()
	tok.End = l.position
	return tok
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

// SplitNumber separates the digits of a numeric literal from its width
// suffix, e.g. "200u8" becomes "200" and "u8".
func SplitNumber(literal string) (digits, suffix string) {
	for i := 0; i < len(literal); i++ {
		if literal[i] != '_' && isLetter(literal[i]) {
			return literal[:i], literal[i:]
		}
	}
	return literal, ""
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
