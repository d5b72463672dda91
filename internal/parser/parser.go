package parser

import (
	"unicode/utf8"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

// Parser turns the token stream into a stylesheet tree. It keeps the whole
// stream and an index so statement dispatch can look arbitrarily far ahead;
// the rule-versus-declaration decision needs that.
type Parser struct {
	tokens []token.Token
	pos    int

	errors []*diagnostics.Diagnostic
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Type: token.EOF, Line: 1, Column: 1}}
	}
	return &Parser{tokens: tokens}
}

func (p *Parser) Errors() []*diagnostics.Diagnostic {
	return p.errors
}

func (p *Parser) ParseStylesheet() *ast.Stylesheet {
	sheet := &ast.Stylesheet{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			sheet.Statements = append(sheet.Statements, stmt)
		}
	}
	return sheet
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) curIs(t token.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) peekIs(t token.TokenType) bool {
	return p.peek(1).Type == t
}

// expect consumes the current token when it matches, or records P002 and
// leaves the position alone so the caller can recover.
func (p *Parser) expect(t token.TokenType) (token.Token, bool) {
	if p.curIs(t) {
		return p.advance(), true
	}
	p.addError(diagnostics.NewError(diagnostics.ErrP002, p.cur(),
		"expected %s, got %s", describeTokenType(t), describeToken(p.cur())))
	return p.cur(), false
}

func (p *Parser) addError(err *diagnostics.Diagnostic) {
	p.errors = append(p.errors, err)
}

// synchronize skips ahead to the next statement boundary after an error.
// A closing brace is left in place for the enclosing block to consume.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.curIs(token.RBRACE) || p.curIs(token.LBRACE) {
			return
		}
		p.advance()
	}
}

// gapBefore reports whether whitespace separated the token at index idx
// from its predecessor. The lexer drops whitespace, so adjacency is
// reconstructed from line and column bookkeeping.
func (p *Parser) gapBefore(idx int) bool {
	if idx <= 0 {
		return true
	}
	prev := p.tokens[idx-1]
	cur := p.tokens[idx]
	if prev.Line != cur.Line {
		return true
	}
	return prev.Column+utf8.RuneCountInString(prev.Lexeme) != cur.Column
}

func (p *Parser) gapBeforeCur() bool {
	return p.gapBefore(p.pos)
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of file"
	}
	return "'" + tok.Lexeme + "'"
}

func describeTokenType(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "an identifier"
	case token.SEMICOLON:
		return "';'"
	case token.COLON:
		return "':'"
	case token.LBRACE:
		return "'{'"
	case token.RBRACE:
		return "'}'"
	case token.LPAREN:
		return "'('"
	case token.RPAREN:
		return "')'"
	case token.VARIABLE:
		return "a variable"
	case token.EOF:
		return "end of file"
	default:
		return "'" + string(t) + "'"
	}
}
