package evaluator

import (
	"sort"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
)

// bindParams fills the child scope one parameter at a time, left to right.
// Keyword arguments and defaults both evaluate against the scope being
// built, so a default may refer to any parameter bound before it.
func (e *Evaluator) bindParams(inc *ast.Include, mix *Mixin, args []Value, child *Environment) *diagnostics.Diagnostic {
	params := mix.Params
	if len(args) > len(params) {
		return diagnostics.NewError(diagnostics.ErrE103, inc.Token,
			"Mixin %s takes %d argument%s but %d %s passed",
			mix.Name, len(params), plural(len(params)), len(args), wasWere(len(args)))
	}

	paramIndex := make(map[string]int, len(params))
	for i, p := range params {
		paramIndex[p.Name] = i
	}

	// Keyword names validate up front, sorted for a stable first error.
	names := make([]string, 0, len(inc.Keywords))
	for name := range inc.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		idx, ok := paramIndex[name]
		if !ok {
			candidates := make([]string, 0, len(params))
			for _, p := range params {
				candidates = append(candidates, p.Name)
			}
			return diagnostics.NewError(diagnostics.ErrE104, inc.Token,
				"Mixin %s doesn't have an argument named $%s%s", mix.Name, name,
				diagnostics.DidYouMean(name, "$", candidates))
		}
		if idx < len(args) {
			return diagnostics.NewError(diagnostics.ErrE104, inc.Token,
				"Mixin %s was passed argument $%s both by position and by name",
				mix.Name, name)
		}
	}

	for i, param := range params {
		var val Value
		var err *diagnostics.Diagnostic

		kw, hasKeyword := inc.Keywords[param.Name]
		switch {
		case i < len(args):
			val = args[i]
		case hasKeyword:
			val, err = e.EvalExpr(kw, child)
		case param.Default != nil:
			val, err = e.EvalExpr(param.Default, child)
			if err == nil && param.LegacyDefault {
				// The legacy default syntax predates quoted strings
				// keeping their quotes; such defaults rebind unquoted.
				if s, ok := val.(*Str); ok && s.Quoted {
					val = &Str{Value: s.Value}
				}
			}
		default:
			return diagnostics.NewError(diagnostics.ErrE105, inc.Token,
				"Mixin %s is missing argument $%s", mix.Name, param.Name)
		}
		if err != nil {
			return err
		}
		child.SetLocal(param.Name, val)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
