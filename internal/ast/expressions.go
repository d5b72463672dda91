package ast

import (
	"github.com/expr-lang/expr/vm"
	"github.com/stratacss/strata/internal/token"
)

// NumberLit represents a numeric literal with an optional CSS unit.
// 12, 1.5, 10px, 50%
type NumberLit struct {
	Token token.Token
	Value float64
	Unit  string
}

func (nl *NumberLit) expressionNode()      {}
func (nl *NumberLit) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NumberLit) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}

// StringLit represents a textual value. Unquoted strings cover CSS keywords
// (solid, sans-serif) as well as raw selector and property text.
type StringLit struct {
	Token  token.Token
	Value  string
	Quoted bool
}

func (sl *StringLit) expressionNode()      {}
func (sl *StringLit) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLit) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// ColorLit represents a hex color literal, e.g. #aabbcc or #abc.
type ColorLit struct {
	Token   token.Token
	R, G, B uint8
}

func (cl *ColorLit) expressionNode()      {}
func (cl *ColorLit) TokenLiteral() string { return cl.Token.Lexeme }
func (cl *ColorLit) GetToken() token.Token {
	if cl == nil {
		return token.Token{}
	}
	return cl.Token
}

// BoolLit represents true/false.
type BoolLit struct {
	Token token.Token
	Value bool
}

func (bl *BoolLit) expressionNode()      {}
func (bl *BoolLit) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BoolLit) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}

// NullLit represents the null literal.
type NullLit struct {
	Token token.Token
}

func (nl *NullLit) expressionNode()      {}
func (nl *NullLit) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NullLit) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}

// Variable represents a variable reference, e.g. $indent.
type Variable struct {
	Token token.Token
	Name  string
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Lexeme }
func (v *Variable) GetToken() token.Token {
	if v == nil {
		return token.Token{}
	}
	return v.Token
}

// Interp is a sequence of text fragments and #{...} expressions. Selectors,
// property names, and directive preludes are always Interps; a fully
// resolved Interp has a single unquoted StringLit part.
type Interp struct {
	Token  token.Token
	Parts  []Expression
	Quoted bool // true when the interp came from a quoted string literal
}

func (i *Interp) expressionNode()      {}
func (i *Interp) TokenLiteral() string { return i.Token.Lexeme }
func (i *Interp) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// BinaryExpr represents an infix operation: + - * / % == != < > <= >= and or.
type BinaryExpr struct {
	Token token.Token // the operator token
	Op    string
	Left  Expression
	Right Expression
}

func (be *BinaryExpr) expressionNode()      {}
func (be *BinaryExpr) TokenLiteral() string { return be.Token.Lexeme }
func (be *BinaryExpr) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}

// UnaryExpr represents a prefix operation: -$x, not $flag.
type UnaryExpr struct {
	Token   token.Token // the operator token
	Op      string
	Operand Expression
}

func (ue *UnaryExpr) expressionNode()      {}
func (ue *UnaryExpr) TokenLiteral() string { return ue.Token.Lexeme }
func (ue *UnaryExpr) GetToken() token.Token {
	if ue == nil {
		return token.Token{}
	}
	return ue.Token
}

// CallExpr represents a function call in value position, e.g. rgb(10, 20, 30).
// Unknown functions pass through to the output as plain CSS text.
type CallExpr struct {
	Token token.Token // the function name token
	Name  string
	Args  []Expression
}

func (ce *CallExpr) expressionNode()      {}
func (ce *CallExpr) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpr) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// ListExpr represents a space- or comma-separated value list.
// margin: 10px 20px;  font-family: Arial, sans-serif;
type ListExpr struct {
	Token     token.Token
	Items     []Expression
	Separator string // " " or ", "
}

func (le *ListExpr) expressionNode()      {}
func (le *ListExpr) TokenLiteral() string { return le.Token.Lexeme }
func (le *ListExpr) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}

// ScriptExpr is a backtick-quoted inline script, compiled once at parse
// time and executed against a snapshot of the visible variables.
type ScriptExpr struct {
	Token   token.Token
	Source  string
	Program *vm.Program
}

func (se *ScriptExpr) expressionNode()      {}
func (se *ScriptExpr) TokenLiteral() string { return se.Token.Lexeme }
func (se *ScriptExpr) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
