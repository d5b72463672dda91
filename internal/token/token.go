package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT    TokenType = "IDENT"    // border-radius, solid, sans-serif
	VARIABLE TokenType = "VARIABLE" // $indent (Literal holds the name without '$')
	NUMBER   TokenType = "NUMBER"   // 12, 1.5, 10px, 50% (Literal holds float64, unit stays in Lexeme)
	STRING   TokenType = "STRING"   // "Helvetica Neue" or 'single'
	HASH     TokenType = "HASH"     // #aabbcc, #main (Literal holds the text after '#')
	SCRIPT   TokenType = "SCRIPT"   // `...` inline script source
	COMMENT  TokenType = "COMMENT"  // /* ... */ (loud comments marked by leading '!')

	// At-keywords
	AT_MIXIN   TokenType = "AT_MIXIN"
	AT_INCLUDE TokenType = "AT_INCLUDE"
	AT_CONTENT TokenType = "AT_CONTENT"
	AT_EXTEND  TokenType = "AT_EXTEND"
	AT_KEYWORD TokenType = "AT_KEYWORD" // any other @rule (Literal holds the name)

	// Value keywords
	TRUE  TokenType = "TRUE"
	FALSE TokenType = "FALSE"
	NULL  TokenType = "NULL"
	AND   TokenType = "AND"
	OR    TokenType = "OR"
	NOT   TokenType = "NOT"

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	ASSIGN   TokenType = "="
	BANG     TokenType = "!"

	// Delimiters
	LPAREN       TokenType = "("
	RPAREN       TokenType = ")"
	LBRACE       TokenType = "{"
	RBRACE       TokenType = "}"
	LBRACKET     TokenType = "["
	RBRACKET     TokenType = "]"
	COLON        TokenType = ":"
	SEMICOLON    TokenType = ";"
	COMMA        TokenType = ","
	DOT          TokenType = "."
	AMPERSAND    TokenType = "&"
	TILDE        TokenType = "~"
	INTERP_START TokenType = "#{"
)

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
}

// LookupIdent maps value-level keywords to their token types; everything
// else is a plain identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

var atKeywords = map[string]TokenType{
	"mixin":   AT_MIXIN,
	"include": AT_INCLUDE,
	"content": AT_CONTENT,
	"extend":  AT_EXTEND,
}

// LookupAtKeyword maps an at-rule name to its token type. Unrecognized
// at-rules (@media, @import, @font-face, ...) become AT_KEYWORD and are
// carried through as generic directives.
func LookupAtKeyword(name string) TokenType {
	if tok, ok := atKeywords[name]; ok {
		return tok
	}
	return AT_KEYWORD
}
