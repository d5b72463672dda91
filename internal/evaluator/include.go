package evaluator

import (
	"fmt"
	"strings"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
)

// evalInclude expands one mixin invocation. Ordering matters here:
//
//  1. refuse re-entry while a mixin of the same name is on the stack
//  2. look the mixin up in the caller's scope
//  3. evaluate positional arguments in the caller's scope
//  4. push a call frame; it pops unconditionally on the way out
//  5. bind parameters into a child of the definition scope
//  6. make the passed block (or its absence) the innermost content
//  7. run the body
//
// Any error raised after the frame push leaves through WithFrame, so a
// failure N includes deep carries one frame per crossed boundary.
func (e *Evaluator) evalInclude(inc *ast.Include, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	if e.IsMixinActive(inc.Name) {
		return nil, diagnostics.NewError(diagnostics.ErrE106, inc.Token,
			"%s", includeLoopMessage(e.ActiveMixins(), inc.Name))
	}

	mix, ok := env.LookupMixin(inc.Name)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrE102, inc.Token,
			"Undefined mixin '%s'%s", inc.Name,
			diagnostics.DidYouMean(inc.Name, "", env.MixinNames()))
	}

	args := make([]Value, 0, len(inc.Args))
	for _, arg := range inc.Args {
		v, err := e.EvalExpr(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	e.PushCall(CallFrame{MixinName: inc.Name, File: e.File, Line: inc.Token.Line})
	defer e.PopCall()

	children, err := e.runInclude(inc, mix, args, env)
	if err != nil {
		return nil, err.WithFrame(inc.Name, e.File, inc.Token.Line)
	}

	resolved := &ast.Include{Token: inc.Token, Name: inc.Name, Children: children}
	return []ast.Statement{resolved}, nil
}

func (e *Evaluator) runInclude(inc *ast.Include, mix *Mixin, args []Value, callerEnv *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	child := NewEnclosedEnvironment(mix.Env)
	if err := e.bindParams(inc, mix, args, child); err != nil {
		return nil, err
	}

	e.pushContent(contentFrame{body: inc.Content, env: callerEnv})
	defer e.popContent()

	return e.evalStatements(mix.Body, child)
}

// includeLoopMessage renders the cycle. A mixin that directly includes
// itself from the top gets the short form; longer cycles list every hop.
func includeLoopMessage(active []string, name string) string {
	if len(active) == 1 && active[0] == name {
		return fmt.Sprintf("An @include loop has been found: %s includes itself", name)
	}
	chain := append(append([]string{}, active...), name)
	var sb strings.Builder
	sb.WriteString("An @include loop has been found:")
	for i := 0; i+1 < len(chain); i++ {
		fmt.Fprintf(&sb, "\n    %s includes %s", chain[i], chain[i+1])
	}
	return sb.String()
}
