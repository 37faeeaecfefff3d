package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT     // x, myValue
	INT_LIT   // 123, 200u8
	FLOAT_LIT // 1.5, 2.0f32

	// Keywords
	FN
	MOD
	LET
	IF
	ELIF
	ELSE
	PUB
	PRIV
	TRUE
	FALSE

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	EQ     // ==
	NEQ    // !=
	LT     // <
	GT     // >
	LEQ    // <=
	GEQ    // >=
	ASSIGN // =
	ARROW  // ->

	// Delimiters
	LPAREN       // (
	RPAREN       // )
	LBRACE       // {
	RBRACE       // }
	HASH_BRACKET // #[
	RBRACKET     // ]
	COMMA        // ,
	COLON        // :
	PATH_SEP     // ::
	SEMICOLON    // ;
)

var tokenNames = map[TokenType]string{
	ILLEGAL:      "ILLEGAL",
	EOF:          "EOF",
	IDENT:        "IDENT",
	INT_LIT:      "INT_LIT",
	FLOAT_LIT:    "FLOAT_LIT",
	FN:           "FN",
	MOD:          "MOD",
	LET:          "LET",
	IF:           "IF",
	ELIF:         "ELIF",
	ELSE:         "ELSE",
	PUB:          "PUB",
	PRIV:         "PRIV",
	TRUE:         "TRUE",
	FALSE:        "FALSE",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	STAR:         "STAR",
	SLASH:        "SLASH",
	EQ:           "EQ",
	NEQ:          "NEQ",
	LT:           "LT",
	GT:           "GT",
	LEQ:          "LEQ",
	GEQ:          "GEQ",
	ASSIGN:       "ASSIGN",
	ARROW:        "ARROW",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LBRACE:       "LBRACE",
	RBRACE:       "RBRACE",
	HASH_BRACKET: "HASH_BRACKET",
	RBRACKET:     "RBRACKET",
	COMMA:        "COMMA",
	COLON:        "COLON",
	PATH_SEP:     "PATH_SEP",
	SEMICOLON:    "SEMICOLON",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token represents a lexical token. Start and End are byte offsets into the
// input, End exclusive.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Start   int
	End     int
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"fn":    FN,
	"mod":   MOD,
	"let":   LET,
	"if":    IF,
	"elif":  ELIF,
	"else":  ELSE,
	"pub":   PUB,
	"priv":  PRIV,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
