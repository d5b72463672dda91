package evaluator

import (
	"math"
	"strings"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

type builtinFunc func(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic)

var builtins = map[string]builtinFunc{
	"rgb":     builtinRGB,
	"if":      builtinIf,
	"quote":   builtinQuote,
	"unquote": builtinUnquote,
	"mix":     builtinMix,
}

// evalCall dispatches to a builtin when one matches; anything else passes
// through as literal CSS text so url(), calc() and vendor functions
// survive untouched.
func (e *Evaluator) evalCall(node *ast.CallExpr, env *Environment) (Value, *diagnostics.Diagnostic) {
	args := make([]Value, 0, len(node.Args))
	for _, arg := range node.Args {
		v, err := e.EvalExpr(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if fn, ok := builtins[node.Name]; ok {
		return fn(node.Token, args)
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Inspect())
	}
	return &Str{Value: node.Name + "(" + strings.Join(parts, ", ") + ")"}, nil
}

func wrongArgs(tok token.Token, name string, want string, got int) *diagnostics.Diagnostic {
	return diagnostics.NewError(diagnostics.ErrE108, tok,
		"wrong number of arguments (%d for %s) for `%s'", got, want, name)
}

func builtinRGB(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 3 {
		return nil, wrongArgs(tok, "rgb", "3", len(args))
	}
	var channels [3]uint8
	for i, arg := range args {
		n, ok := arg.(*Number)
		if !ok || (n.Unit != "" && n.Unit != "%") {
			return nil, diagnostics.NewError(diagnostics.ErrE108, tok,
				"rgb() expects numeric channels, got %s", arg.Inspect())
		}
		v := n.Value
		if n.Unit == "%" {
			v = v * 255 / 100
		}
		channels[i] = clampChannel(v)
	}
	return &Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

func builtinIf(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 3 {
		return nil, wrongArgs(tok, "if", "3", len(args))
	}
	if isTruthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func builtinQuote(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, wrongArgs(tok, "quote", "1", len(args))
	}
	return &Str{Value: interpText(args[0]), Quoted: true}, nil
}

func builtinUnquote(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, wrongArgs(tok, "unquote", "1", len(args))
	}
	return &Str{Value: interpText(args[0])}, nil
}

// builtinMix blends two colors. The optional third argument is the weight
// of the first color as a percentage, 50% when omitted.
func builtinMix(tok token.Token, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 2 && len(args) != 3 {
		return nil, wrongArgs(tok, "mix", "2..3", len(args))
	}
	c1, ok1 := args[0].(*Color)
	c2, ok2 := args[1].(*Color)
	if !ok1 || !ok2 {
		return nil, diagnostics.NewError(diagnostics.ErrE108, tok,
			"mix() expects two colors, got %s and %s", args[0].Inspect(), args[1].Inspect())
	}
	weight := 0.5
	if len(args) == 3 {
		n, ok := args[2].(*Number)
		if !ok || (n.Unit != "" && n.Unit != "%") {
			return nil, diagnostics.NewError(diagnostics.ErrE108, tok,
				"mix() weight must be a percentage, got %s", args[2].Inspect())
		}
		weight = n.Value / 100
		if n.Unit == "" && n.Value <= 1 {
			weight = n.Value
		}
		weight = math.Max(0, math.Min(1, weight))
	}
	blend := func(a, b uint8) uint8 {
		return clampChannel(float64(a)*weight + float64(b)*(1-weight))
	}
	return &Color{R: blend(c1.R, c2.R), G: blend(c1.G, c2.G), B: blend(c1.B, c2.B)}, nil
}
