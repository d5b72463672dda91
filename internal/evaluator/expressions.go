package evaluator

import (
	"fmt"
	"math"

	exprlang "github.com/expr-lang/expr"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

func (e *Evaluator) EvalExpr(expr ast.Expression, env *Environment) (Value, *diagnostics.Diagnostic) {
	switch node := expr.(type) {
	case *ast.NumberLit:
		return &Number{Value: node.Value, Unit: node.Unit}, nil

	case *ast.StringLit:
		return &Str{Value: node.Value, Quoted: node.Quoted}, nil

	case *ast.ColorLit:
		return &Color{R: node.R, G: node.G, B: node.B}, nil

	case *ast.BoolLit:
		return nativeBool(node.Value), nil

	case *ast.NullLit:
		return NULL, nil

	case *ast.Variable:
		if v, ok := env.LookupVar(node.Name); ok {
			return v, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrE101, node.Token,
			"Undefined variable: \"$%s\"%s", node.Name,
			diagnostics.DidYouMean(node.Name, "$", env.VarNames()))

	case *ast.Interp:
		text, err := e.resolveInterp(node, env)
		if err != nil {
			return nil, err
		}
		return &Str{Value: text, Quoted: node.Quoted}, nil

	case *ast.UnaryExpr:
		return e.evalUnary(node, env)

	case *ast.BinaryExpr:
		return e.evalBinary(node, env)

	case *ast.CallExpr:
		return e.evalCall(node, env)

	case *ast.ListExpr:
		items := make([]Value, 0, len(node.Items))
		for _, item := range node.Items {
			v, err := e.EvalExpr(item, env)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &List{Items: items, Separator: node.Separator}, nil

	case *ast.ScriptExpr:
		return e.evalScript(node, env)
	}

	return nil, diagnostics.NewError(diagnostics.ErrE108, expr.GetToken(),
		"cannot evaluate this expression")
}

func (e *Evaluator) evalUnary(node *ast.UnaryExpr, env *Environment) (Value, *diagnostics.Diagnostic) {
	operand, err := e.EvalExpr(node.Operand, env)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "-":
		if n, ok := operand.(*Number); ok {
			return &Number{Value: -n.Value, Unit: n.Unit}, nil
		}
		if s, ok := operand.(*Str); ok && !s.Quoted {
			return &Str{Value: "-" + s.Value}, nil
		}
	case "+":
		if n, ok := operand.(*Number); ok {
			return n, nil
		}
	case "not":
		return nativeBool(!isTruthy(operand)), nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrE108, node.Token,
		"Undefined operation: \"%s%s\"", node.Op, operand.Inspect())
}

func (e *Evaluator) evalBinary(node *ast.BinaryExpr, env *Environment) (Value, *diagnostics.Diagnostic) {
	left, err := e.EvalExpr(node.Left, env)
	if err != nil {
		return nil, err
	}

	// and/or short-circuit and return the deciding operand.
	switch node.Op {
	case "and":
		if !isTruthy(left) {
			return left, nil
		}
		return e.EvalExpr(node.Right, env)
	case "or":
		if isTruthy(left) {
			return left, nil
		}
		return e.EvalExpr(node.Right, env)
	}

	right, err := e.EvalExpr(node.Right, env)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case "==":
		return nativeBool(valuesEqual(left, right)), nil
	case "!=":
		return nativeBool(!valuesEqual(left, right)), nil
	}

	if ln, ok := left.(*Number); ok {
		if rn, ok := right.(*Number); ok {
			return numberOp(node.Token, node.Op, ln, rn)
		}
	}

	if node.Op == "+" {
		if ls, ok := left.(*Str); ok {
			return &Str{Value: ls.Value + interpText(right), Quoted: ls.Quoted}, nil
		}
		if rs, ok := right.(*Str); ok {
			return &Str{Value: interpText(left) + rs.Value, Quoted: rs.Quoted}, nil
		}
	}

	if v, ok, errv := colorOp(node.Token, node.Op, left, right); ok {
		return v, errv
	}

	return nil, undefinedOp(node.Token, node.Op, left, right)
}

func undefinedOp(tok token.Token, op string, left, right Value) *diagnostics.Diagnostic {
	return diagnostics.NewError(diagnostics.ErrE108, tok,
		"Undefined operation: \"%s %s %s\"", left.Inspect(), op, right.Inspect())
}

func numberOp(tok token.Token, op string, l, r *Number) (Value, *diagnostics.Diagnostic) {
	switch op {
	case "+", "-", "%", "<", ">", "<=", ">=":
		if l.Unit != "" && r.Unit != "" && l.Unit != r.Unit {
			return nil, diagnostics.NewError(diagnostics.ErrE108, tok,
				"Incompatible units: \"%s\" and \"%s\"", l.Unit, r.Unit)
		}
	}
	unit := l.Unit
	if unit == "" {
		unit = r.Unit
	}

	switch op {
	case "+":
		return &Number{Value: l.Value + r.Value, Unit: unit}, nil
	case "-":
		return &Number{Value: l.Value - r.Value, Unit: unit}, nil
	case "*":
		if l.Unit != "" && r.Unit != "" {
			return nil, undefinedOp(tok, op, l, r)
		}
		return &Number{Value: l.Value * r.Value, Unit: unit}, nil
	case "/":
		if r.Value == 0 {
			return nil, diagnostics.NewError(diagnostics.ErrE108, tok, "Division by zero")
		}
		switch {
		case l.Unit == r.Unit:
			return &Number{Value: l.Value / r.Value}, nil
		case r.Unit == "":
			return &Number{Value: l.Value / r.Value, Unit: l.Unit}, nil
		default:
			return nil, undefinedOp(tok, op, l, r)
		}
	case "%":
		if r.Value == 0 {
			return nil, diagnostics.NewError(diagnostics.ErrE108, tok, "Division by zero")
		}
		return &Number{Value: math.Mod(l.Value, r.Value), Unit: unit}, nil
	case "<":
		return nativeBool(l.Value < r.Value), nil
	case ">":
		return nativeBool(l.Value > r.Value), nil
	case "<=":
		return nativeBool(l.Value <= r.Value), nil
	case ">=":
		return nativeBool(l.Value >= r.Value), nil
	}
	return nil, undefinedOp(tok, op, l, r)
}

// colorOp handles channelwise arithmetic between colors, and between a
// color and a unitless number. Results clamp to the 0..255 range.
func colorOp(tok token.Token, op string, left, right Value) (Value, bool, *diagnostics.Diagnostic) {
	lc, lok := left.(*Color)
	rc, rok := right.(*Color)
	ln, lnum := left.(*Number)
	rn, rnum := right.(*Number)

	channel := func(a, b float64) (float64, *diagnostics.Diagnostic) {
		switch op {
		case "+":
			return a + b, nil
		case "-":
			return a - b, nil
		case "*":
			return a * b, nil
		case "/":
			if b == 0 {
				return 0, diagnostics.NewError(diagnostics.ErrE108, tok, "Division by zero")
			}
			return a / b, nil
		}
		return 0, undefinedOp(tok, op, left, right)
	}

	combine := func(l [3]float64, r [3]float64) (Value, bool, *diagnostics.Diagnostic) {
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := channel(l[i], r[i])
			if err != nil {
				return nil, true, err
			}
			out[i] = clampChannel(v)
		}
		return &Color{R: out[0], G: out[1], B: out[2]}, true, nil
	}

	switch {
	case lok && rok:
		return combine(colorChannels(lc), colorChannels(rc))
	case lok && rnum && rn.Unit == "":
		return combine(colorChannels(lc), [3]float64{rn.Value, rn.Value, rn.Value})
	case lnum && rok && ln.Unit == "":
		return combine([3]float64{ln.Value, ln.Value, ln.Value}, colorChannels(rc))
	}
	return nil, false, nil
}

func colorChannels(c *Color) [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func valuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case *Number:
		r, ok := right.(*Number)
		if !ok {
			return false
		}
		if l.Unit != r.Unit && l.Unit != "" && r.Unit != "" {
			return false
		}
		return l.Value == r.Value
	case *Str:
		r, ok := right.(*Str)
		return ok && l.Value == r.Value
	case *Color:
		r, ok := right.(*Color)
		return ok && l.R == r.R && l.G == r.G && l.B == r.B
	case *Bool:
		r, ok := right.(*Bool)
		return ok && l.Value == r.Value
	case *Null:
		_, ok := right.(*Null)
		return ok
	case *List:
		r, ok := right.(*List)
		if !ok || len(l.Items) != len(r.Items) || l.Separator != r.Separator {
			return false
		}
		for i := range l.Items {
			if !valuesEqual(l.Items[i], r.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (e *Evaluator) evalScript(node *ast.ScriptExpr, env *Environment) (Value, *diagnostics.Diagnostic) {
	if node.Program == nil {
		return nil, diagnostics.NewError(diagnostics.ErrE107, node.Token,
			"script was never compiled")
	}
	result, err := exprlang.Run(node.Program, env.Snapshot())
	if err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrE107, node.Token,
			"script failed: %s", err)
	}
	return fromScriptValue(result), nil
}

// fromScriptValue maps a script result back into the value domain.
// Numbers come back unitless.
func fromScriptValue(v interface{}) Value {
	switch v := v.(type) {
	case float64:
		return &Number{Value: v}
	case int:
		return &Number{Value: float64(v)}
	case int64:
		return &Number{Value: float64(v)}
	case uint64:
		return &Number{Value: float64(v)}
	case string:
		return &Str{Value: v}
	case bool:
		return nativeBool(v)
	case nil:
		return NULL
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, fromScriptValue(item))
		}
		return &List{Items: items, Separator: " "}
	}
	return &Str{Value: fmt.Sprint(v)}
}
