package ast

import (
	"github.com/stratacss/strata/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that can appear in a stylesheet or block body.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Stylesheet is the root node of every tree our parser produces.
type Stylesheet struct {
	File       string // Source file path
	Statements []Statement
}

func (s *Stylesheet) TokenLiteral() string {
	if len(s.Statements) > 0 {
		return s.Statements[0].TokenLiteral()
	}
	return ""
}

// Rule represents a style rule: a selector followed by a block.
// .button:hover { ... }
type Rule struct {
	Token    token.Token // first selector token
	Selector *Interp
	Body     []Statement
}

func (r *Rule) statementNode()       {}
func (r *Rule) TokenLiteral() string { return r.Token.Lexeme }
func (r *Rule) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Token
}

// Declaration represents a CSS property declaration.
// border-radius: 4px !important;
type Declaration struct {
	Token     token.Token // first property token
	Property  *Interp
	Value     Expression
	Important bool
}

func (d *Declaration) statementNode()       {}
func (d *Declaration) TokenLiteral() string { return d.Token.Lexeme }
func (d *Declaration) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// VariableDecl represents a variable assignment.
// $indent: 12px;
type VariableDecl struct {
	Token token.Token // the VARIABLE token
	Name  string
	Value Expression
}

func (vd *VariableDecl) statementNode()       {}
func (vd *VariableDecl) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VariableDecl) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

// Param is one declared mixin parameter. Legacy sources may introduce the
// default with '=' instead of ':'; such defaults carry the legacy flag and
// their evaluated textual values are unquoted at bind time.
type Param struct {
	Token         token.Token // the VARIABLE token
	Name          string
	Default       Expression // nil when the parameter is required
	LegacyDefault bool
}

func (p *Param) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// MixinDef represents a mixin definition.
// @mixin corner($radius, $style: solid) { ... }
type MixinDef struct {
	Token  token.Token // the '@mixin' token
	Name   string
	Params []*Param
	Body   []Statement
}

func (md *MixinDef) statementNode()       {}
func (md *MixinDef) TokenLiteral() string { return md.Token.Lexeme }
func (md *MixinDef) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// Include represents a mixin invocation.
// @include corner(8px, $width: 2px) { ... }
// Children starts empty and is populated with the evaluated, flattened body
// after a successful invocation; this is the node's only mutation.
type Include struct {
	Token    token.Token // the '@include' token
	Name     string
	Args     []Expression
	Keywords map[string]Expression
	Content  []Statement // trailing content block, nil when absent
	Children []Statement
}

func (inc *Include) statementNode()       {}
func (inc *Include) TokenLiteral() string { return inc.Token.Lexeme }
func (inc *Include) GetToken() token.Token {
	if inc == nil {
		return token.Token{}
	}
	return inc.Token
}

// ContentDirective marks the splice point for an @include's content block.
type ContentDirective struct {
	Token token.Token // the '@content' token
}

func (cd *ContentDirective) statementNode()       {}
func (cd *ContentDirective) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ContentDirective) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}

// Extend records a selector-extension request. Resolution happens outside
// the compiler; lowering only collects the pairs.
type Extend struct {
	Token    token.Token // the '@extend' token
	Selector *Interp
}

func (e *Extend) statementNode()       {}
func (e *Extend) TokenLiteral() string { return e.Token.Lexeme }
func (e *Extend) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Directive is any at-rule the compiler does not interpret itself:
// @media (min-width: 600px) { ... } or @import "reset";
type Directive struct {
	Token   token.Token // the at-keyword token
	Name    string
	Prelude *Interp // nil when the rule has no prelude
	Body    []Statement
	HasBody bool
}

func (d *Directive) statementNode()       {}
func (d *Directive) TokenLiteral() string { return d.Token.Lexeme }
func (d *Directive) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// Comment is a /* ... */ comment carried into the output. Loud comments
// (/*! ... */) survive even compressed output.
type Comment struct {
	Token token.Token
	Text  string
	Loud  bool
}

func (c *Comment) statementNode()       {}
func (c *Comment) TokenLiteral() string { return c.Token.Lexeme }
func (c *Comment) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}
