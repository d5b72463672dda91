package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/lexer"
	"github.com/stratacss/strata/internal/token"
)

// Value grammar, loosest to tightest binding:
//
//	value     -> spaceList ("," spaceList)*
//	spaceList -> term term*
//	term      -> or
//	or        -> and ("or" and)*
//	and       -> cmp ("and" cmp)*
//	cmp       -> sum (("==" | "!=" | "<" | ">" | "<=" | ">=") sum)*
//	sum       -> product (("+" | "-") product)*
//	product   -> unary (("*" | "/" | "%") unary)*
//	unary     -> ("-" | "+" | "not") unary | primary
//
// Whitespace decides whether '-' is an operator or starts the next list
// item: "5px - 3px" and "5px-3px" subtract, "5px -3px" is a two-item list.

func (p *Parser) parseValue() ast.Expression {
	return p.parseCommaList()
}

func (p *Parser) parseCommaList() ast.Expression {
	tok := p.cur()
	first := p.parseSpaceList()
	if first == nil || !p.curIs(token.COMMA) {
		return first
	}
	list := &ast.ListExpr{Token: tok, Items: []ast.Expression{first}, Separator: ", "}
	for p.curIs(token.COMMA) {
		p.advance()
		item := p.parseSpaceList()
		if item == nil {
			break
		}
		list.Items = append(list.Items, item)
	}
	return list
}

func (p *Parser) parseSpaceList() ast.Expression {
	tok := p.cur()
	first := p.parseTerm()
	if first == nil || !p.startsTerm() {
		return first
	}
	list := &ast.ListExpr{Token: tok, Items: []ast.Expression{first}, Separator: " "}
	for p.startsTerm() {
		item := p.parseTerm()
		if item == nil {
			break
		}
		list.Items = append(list.Items, item)
	}
	return list
}

// startsTerm reports whether the current token can begin a new list item.
func (p *Parser) startsTerm() bool {
	switch p.cur().Type {
	case token.NUMBER, token.STRING, token.IDENT, token.VARIABLE, token.HASH,
		token.SCRIPT, token.TRUE, token.FALSE, token.NULL, token.LPAREN,
		token.INTERP_START:
		return true
	case token.MINUS, token.PLUS:
		// A sign glued to its operand starts a new item.
		return !p.gapBefore(p.pos + 1)
	case token.NOT:
		return true
	}
	return false
}

func (p *Parser) parseTerm() ast.Expression {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for left != nil && p.curIs(token.OR) {
		tok := p.advance()
		right := p.parseAnd()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{Token: tok, Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseComparison()
	for left != nil && p.curIs(token.AND) {
		tok := p.advance()
		right := p.parseComparison()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{Token: tok, Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseSum()
	for left != nil {
		switch p.cur().Type {
		case token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE:
			tok := p.advance()
			right := p.parseSum()
			if right == nil {
				return left
			}
			left = &ast.BinaryExpr{Token: tok, Op: tok.Lexeme, Left: left, Right: right}
		default:
			return left
		}
	}
	return left
}

func (p *Parser) parseSum() ast.Expression {
	left := p.parseProduct()
	for left != nil {
		if !p.curIs(token.PLUS) && !p.curIs(token.MINUS) {
			return left
		}
		// A sign with space before and none after belongs to the next
		// list item, not to this sum.
		if p.gapBeforeCur() && !p.gapBefore(p.pos+1) {
			return left
		}
		tok := p.advance()
		right := p.parseProduct()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{Token: tok, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseProduct() ast.Expression {
	left := p.parseUnary()
	for left != nil {
		if !p.curIs(token.ASTERISK) && !p.curIs(token.SLASH) && !p.curIs(token.PERCENT) {
			return left
		}
		tok := p.advance()
		right := p.parseUnary()
		if right == nil {
			return left
		}
		left = &ast.BinaryExpr{Token: tok, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.MINUS:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Token: tok, Op: "-", Operand: operand}
	case token.PLUS:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Token: tok, Op: "+", Operand: operand}
	case token.NOT:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Token: tok, Op: "not", Operand: operand}
	}
	return p.parseInterpTerm()
}

// parseInterpTerm handles value-position interpolation, including text
// glued onto either side: #{$x}px, -#{$q}, 10#{$u}.
func (p *Parser) parseInterpTerm() ast.Expression {
	startTok := p.cur()
	var parts []ast.Expression

	if !p.curIs(token.INTERP_START) {
		e := p.parsePrimary()
		if e == nil {
			return nil
		}
		if !p.curIs(token.INTERP_START) || p.gapBeforeCur() {
			return e
		}
		parts = append(parts, e)
	}

	for {
		if p.curIs(token.INTERP_START) && (len(parts) == 0 || !p.gapBeforeCur()) {
			p.advance()
			inner := p.parseValue()
			p.expect(token.RBRACE)
			if inner != nil {
				parts = append(parts, inner)
			}
			continue
		}
		if !p.gapBeforeCur() && (p.curIs(token.IDENT) || p.curIs(token.NUMBER) || p.curIs(token.PERCENT)) {
			tok := p.advance()
			parts = append(parts, &ast.StringLit{Token: tok, Value: tok.Lexeme})
			continue
		}
		break
	}
	return &ast.Interp{Token: startTok, Parts: parts}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		val, _ := tok.Literal.(float64)
		return &ast.NumberLit{Token: tok, Value: val, Unit: numberUnit(tok.Lexeme)}
	case token.STRING:
		p.advance()
		content, _ := tok.Literal.(string)
		if strings.Contains(content, "#{") {
			return p.parseStringInterp(tok, content)
		}
		return &ast.StringLit{Token: tok, Value: content, Quoted: true}
	case token.HASH:
		p.advance()
		return p.parseHashColor(tok)
	case token.VARIABLE:
		p.advance()
		name, _ := tok.Literal.(string)
		return &ast.Variable{Token: tok, Name: name}
	case token.IDENT:
		p.advance()
		if p.curIs(token.LPAREN) && !p.gapBeforeCur() {
			return p.parseCall(tok)
		}
		return &ast.StringLit{Token: tok, Value: tok.Lexeme}
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: false}
	case token.NULL:
		p.advance()
		return &ast.NullLit{Token: tok}
	case token.SCRIPT:
		p.advance()
		return p.parseScript(tok)
	case token.LPAREN:
		p.advance()
		inner := p.parseValue()
		p.expect(token.RPAREN)
		return inner
	}

	p.addError(diagnostics.NewError(diagnostics.ErrP001, tok,
		"unexpected %s in value", describeToken(tok)))
	p.advance()
	return nil
}

func (p *Parser) parseCall(nameTok token.Token) ast.Expression {
	call := &ast.CallExpr{Token: nameTok, Name: nameTok.Lexeme}
	p.advance() // consume '('
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		arg := p.parseSpaceList()
		if arg == nil {
			break
		}
		call.Args = append(call.Args, arg)
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseHashColor(tok token.Token) ast.Expression {
	hex, _ := tok.Literal.(string)
	if r, g, b, ok := parseHex(hex); ok {
		return &ast.ColorLit{Token: tok, R: r, G: g, B: b}
	}
	p.addError(diagnostics.NewError(diagnostics.ErrP003, tok,
		"invalid color %q", tok.Lexeme))
	return &ast.StringLit{Token: tok, Value: tok.Lexeme}
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	switch len(hex) {
	case 3:
		digits := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return 0, 0, 0, false
			}
			digits[i] = uint8(v*16 + v)
		}
		return digits[0], digits[1], digits[2], true
	case 6:
		digits := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return 0, 0, 0, false
			}
			digits[i] = uint8(v)
		}
		return digits[0], digits[1], digits[2], true
	}
	return 0, 0, 0, false
}

// parseStringInterp splits a quoted string containing #{...} blocks into
// text and expression parts. An unbalanced block stays as literal text.
func (p *Parser) parseStringInterp(tok token.Token, content string) ast.Expression {
	interp := &ast.Interp{Token: tok, Quoted: true}
	rest := content
	for {
		i := strings.Index(rest, "#{")
		if i < 0 {
			if rest != "" {
				interp.Parts = append(interp.Parts, &ast.StringLit{Token: tok, Value: rest})
			}
			break
		}
		if i > 0 {
			interp.Parts = append(interp.Parts, &ast.StringLit{Token: tok, Value: rest[:i]})
		}
		j := strings.Index(rest[i:], "}")
		if j < 0 {
			interp.Parts = append(interp.Parts, &ast.StringLit{Token: tok, Value: rest[i:]})
			break
		}
		inner := p.parseEmbedded(rest[i+2:i+j], tok)
		if inner != nil {
			interp.Parts = append(interp.Parts, inner)
		}
		rest = rest[i+j+1:]
	}
	return interp
}

// parseEmbedded parses an expression hidden inside another token, such as
// the inside of a string interpolation. Errors inherit the host token's
// position since inner offsets are meaningless to the user.
func (p *Parser) parseEmbedded(source string, host token.Token) ast.Expression {
	l := lexer.New(source)
	var tokens []token.Token
	for {
		t := l.NextToken()
		if t.Type == token.ILLEGAL {
			continue
		}
		tokens = append(tokens, t)
		if t.Type == token.EOF {
			break
		}
	}
	sub := New(tokens)
	e := sub.parseValue()
	for _, err := range sub.Errors() {
		err.Line = host.Line
		err.Column = host.Column
		p.addError(err)
	}
	return e
}

var scriptVarRe = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_-]*)`)

// rewriteScriptVars maps stylesheet variables onto script identifiers:
// $font-size becomes font_size inside a backtick script.
func rewriteScriptVars(source string) string {
	return scriptVarRe.ReplaceAllStringFunc(source, func(m string) string {
		return strings.ReplaceAll(m[1:], "-", "_")
	})
}

func (p *Parser) parseScript(tok token.Token) ast.Expression {
	source, _ := tok.Literal.(string)
	program, err := expr.Compile(rewriteScriptVars(source), expr.AllowUndefinedVariables())
	if err != nil {
		p.addError(diagnostics.NewError(diagnostics.ErrP005, tok,
			"invalid script: %s", compileErrorMessage(err)))
		return &ast.ScriptExpr{Token: tok, Source: source}
	}
	return &ast.ScriptExpr{Token: tok, Source: source, Program: program}
}

func compileErrorMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func numberUnit(lexeme string) string {
	i := 0
	for i < len(lexeme) && (lexeme[i] == '.' || ('0' <= lexeme[i] && lexeme[i] <= '9')) {
		i++
	}
	return lexeme[i:]
}
