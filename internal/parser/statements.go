package parser

import (
	"strings"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.SEMICOLON:
		p.advance()
		return nil
	case token.COMMENT:
		return p.parseComment()
	case token.AT_MIXIN:
		return p.parseMixinDef()
	case token.AT_INCLUDE:
		return p.parseInclude()
	case token.AT_CONTENT:
		return p.parseContentDirective()
	case token.AT_EXTEND:
		return p.parseExtend()
	case token.AT_KEYWORD:
		return p.parseDirective()
	case token.VARIABLE:
		if p.peekIs(token.COLON) {
			return p.parseVariableDecl()
		}
		p.addError(diagnostics.NewError(diagnostics.ErrP001, p.cur(),
			"unexpected %s, variables need ': <value>' here", describeToken(p.cur())))
		p.synchronize()
		return nil
	case token.RBRACE:
		p.addError(diagnostics.NewError(diagnostics.ErrP001, p.cur(), "unexpected '}'"))
		p.advance()
		return nil
	}

	if p.looksLikeRule() {
		return p.parseRule()
	}
	return p.parseDeclaration()
}

// looksLikeRule scans ahead for the statement's shape: a '{' before any
// ';' or '}' means a nested rule, anything else is a declaration.
// Interpolation blocks are skipped whole so their '}' does not count.
func (p *Parser) looksLikeRule() bool {
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LBRACE:
			return true
		case token.SEMICOLON, token.RBRACE, token.EOF:
			return false
		case token.INTERP_START:
			for i < len(p.tokens) && p.tokens[i].Type != token.RBRACE && p.tokens[i].Type != token.EOF {
				i++
			}
		}
	}
	return false
}

func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return stmts
}

func (p *Parser) parseRule() ast.Statement {
	tok := p.cur()
	selector := p.parseInterpUntil(token.LBRACE)
	if len(selector.Parts) == 0 {
		p.addError(diagnostics.NewError(diagnostics.ErrP001, tok, "expected a selector"))
	}
	rule := &ast.Rule{Token: tok, Selector: selector}
	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		return nil
	}
	rule.Body = p.parseBlock()
	return rule
}

func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur()
	property := p.parseInterpUntil(token.COLON, token.SEMICOLON, token.LBRACE, token.RBRACE)
	if len(property.Parts) == 0 {
		p.addError(diagnostics.NewError(diagnostics.ErrP001, tok,
			"expected a property name, got %s", describeToken(p.cur())))
		p.synchronize()
		return nil
	}
	decl := &ast.Declaration{Token: tok, Property: property}
	if _, ok := p.expect(token.COLON); !ok {
		p.synchronize()
		return nil
	}
	decl.Value = p.parseValue()
	if decl.Value == nil {
		p.synchronize()
		return nil
	}
	if p.curIs(token.BANG) && p.peekIs(token.IDENT) && p.peek(1).Lexeme == "important" {
		p.advance()
		p.advance()
		decl.Important = true
	}
	p.endStatement()
	return decl
}

func (p *Parser) parseVariableDecl() ast.Statement {
	tok := p.advance()
	name, _ := tok.Literal.(string)
	p.expect(token.COLON)
	decl := &ast.VariableDecl{Token: tok, Name: name}
	decl.Value = p.parseValue()
	if decl.Value == nil {
		p.synchronize()
		return nil
	}
	p.endStatement()
	return decl
}

func (p *Parser) parseMixinDef() ast.Statement {
	tok := p.advance()
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	def := &ast.MixinDef{Token: tok, Name: nameTok.Lexeme}
	if p.curIs(token.LPAREN) {
		def.Params = p.parseParams()
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		return nil
	}
	def.Body = p.parseBlock()
	return def
}

// parseParams reads a mixin's parameter list. A ':' introduces a default
// in the current syntax; '=' marks a default written in the legacy syntax,
// which the binder treats slightly differently.
func (p *Parser) parseParams() []*ast.Param {
	p.advance() // consume '('
	var params []*ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		nameTok, ok := p.expect(token.VARIABLE)
		if !ok {
			p.synchronize()
			return params
		}
		name, _ := nameTok.Literal.(string)
		param := &ast.Param{Token: nameTok, Name: name}
		switch p.cur().Type {
		case token.COLON:
			p.advance()
			param.Default = p.parseSpaceList()
		case token.ASSIGN:
			p.advance()
			param.Default = p.parseSpaceList()
			param.LegacyDefault = true
		}
		params = append(params, param)
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseInclude() ast.Statement {
	tok := p.advance()
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	inc := &ast.Include{Token: tok, Name: nameTok.Lexeme}
	if p.curIs(token.LPAREN) {
		p.parseArgs(inc)
	}
	if p.curIs(token.LBRACE) {
		p.advance()
		body := p.parseBlock()
		if body == nil {
			// An empty block still counts as providing content.
			body = []ast.Statement{}
		}
		inc.Content = body
		return inc
	}
	p.endStatement()
	return inc
}

// parseArgs reads an include's argument list: positional expressions and
// '$name: value' keyword pairs. Repeating a keyword is an error.
func (p *Parser) parseArgs(inc *ast.Include) {
	p.advance() // consume '('
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.VARIABLE) && p.peekIs(token.COLON) {
			nameTok := p.advance()
			name, _ := nameTok.Literal.(string)
			p.advance() // consume ':'
			val := p.parseSpaceList()
			if val == nil {
				break
			}
			if inc.Keywords == nil {
				inc.Keywords = make(map[string]ast.Expression)
			}
			if _, seen := inc.Keywords[name]; seen {
				p.addError(diagnostics.NewError(diagnostics.ErrP004, nameTok,
					"keyword argument $%s passed more than once", name))
			} else {
				inc.Keywords[name] = val
			}
		} else {
			arg := p.parseSpaceList()
			if arg == nil {
				break
			}
			inc.Args = append(inc.Args, arg)
		}
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
}

func (p *Parser) parseContentDirective() ast.Statement {
	tok := p.advance()
	p.endStatement()
	return &ast.ContentDirective{Token: tok}
}

func (p *Parser) parseExtend() ast.Statement {
	tok := p.advance()
	selector := p.parseInterpUntil(token.SEMICOLON, token.RBRACE)
	if len(selector.Parts) == 0 {
		p.addError(diagnostics.NewError(diagnostics.ErrP001, tok, "expected a selector after @extend"))
		p.synchronize()
		return nil
	}
	p.endStatement()
	return &ast.Extend{Token: tok, Selector: selector}
}

// parseDirective handles at-rules the compiler passes through: @media,
// @charset, @font-face and the like.
func (p *Parser) parseDirective() ast.Statement {
	tok := p.advance()
	name, _ := tok.Literal.(string)
	dir := &ast.Directive{Token: tok, Name: name}
	dir.Prelude = p.parseInterpUntil(token.LBRACE, token.SEMICOLON)
	if p.curIs(token.LBRACE) {
		p.advance()
		dir.HasBody = true
		dir.Body = p.parseBlock()
		return dir
	}
	p.endStatement()
	return dir
}

func (p *Parser) parseComment() ast.Statement {
	tok := p.advance()
	text, _ := tok.Literal.(string)
	return &ast.Comment{Token: tok, Text: text, Loud: strings.HasPrefix(text, "!")}
}

// parseInterpUntil collects raw tokens into an Interp until one of the stop
// types. Spacing lost by the lexer is rebuilt from token adjacency, and
// #{...} blocks become expression parts.
func (p *Parser) parseInterpUntil(stops ...token.TokenType) *ast.Interp {
	interp := &ast.Interp{Token: p.cur()}
	var text strings.Builder
	var textTok token.Token

	flush := func() {
		if text.Len() > 0 {
			interp.Parts = append(interp.Parts, &ast.StringLit{Token: textTok, Value: text.String()})
			text.Reset()
		}
	}

	for !p.curIs(token.EOF) {
		cur := p.cur()
		stopped := false
		for _, s := range stops {
			if cur.Type == s {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}

		gap := p.gapBeforeCur() && (text.Len() > 0 || len(interp.Parts) > 0)

		if cur.Type == token.INTERP_START {
			if gap {
				text.WriteString(" ")
			}
			flush()
			p.advance()
			inner := p.parseValue()
			p.expect(token.RBRACE)
			if inner != nil {
				interp.Parts = append(interp.Parts, inner)
			}
			continue
		}

		if text.Len() == 0 {
			textTok = cur
		}
		if gap {
			text.WriteString(" ")
		}
		text.WriteString(cur.Lexeme)
		p.advance()
	}
	flush()
	return interp
}

// endStatement consumes the terminating ';'. The last statement in a block
// may omit it.
func (p *Parser) endStatement() {
	if p.curIs(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return
	}
	p.addError(diagnostics.NewError(diagnostics.ErrP002, p.cur(),
		"expected ';', got %s", describeToken(p.cur())))
	p.synchronize()
}
