package lowering

import (
	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
)

// ExtendPair records one @extend: the selector chain of the rule that
// declared it, root first, and the selector it wants to absorb.
type ExtendPair struct {
	Chain  []string
	Target string
}

// ExtendSet is everything @extend collected from one stylesheet.
type ExtendSet struct {
	Pairs []ExtendPair
}

func (es *ExtendSet) Empty() bool {
	return es == nil || len(es.Pairs) == 0
}

type lowerer struct {
	file    string
	extends *ExtendSet
}

// Lower structurally validates the evaluated tree, splices expanded
// includes into their surroundings, and strips @extend markers into an
// ExtendSet. Lowering an already lowered tree changes nothing.
func Lower(sheet *ast.Stylesheet) (*ast.Stylesheet, *ExtendSet, *diagnostics.Diagnostic) {
	lo := &lowerer{file: sheet.File, extends: &ExtendSet{}}
	stmts, err := lo.lowerChildren(sheet, sheet.Statements, nil)
	if err != nil {
		return nil, nil, err
	}
	return &ast.Stylesheet{File: sheet.File, Statements: stmts}, lo.extends, nil
}

// lowerChildren validates stmts against parent and flattens them. chain
// is the selector path down to parent; include children validate against
// the include's own parent, since the wrapper disappears.
func (lo *lowerer) lowerChildren(parent ast.Container, stmts []ast.Statement, chain []string) ([]ast.Statement, *diagnostics.Diagnostic) {
	var out []ast.Statement
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.Include:
			children, err := lo.lowerChildren(parent, stmt.Children, chain)
			if err != nil {
				err.ModifyTrace(stmt.Name, lo.file, stmt.Token.Line)
				return nil, err.WithFrame(stmt.Name, lo.file, stmt.Token.Line)
			}
			out = append(out, children...)

		case *ast.Extend:
			if !parent.AcceptsChild(stmt) {
				return nil, lo.nestingError(parent, stmt)
			}
			lo.extends.Pairs = append(lo.extends.Pairs, ExtendPair{
				Chain:  append([]string{}, chain...),
				Target: selectorText(stmt.Selector),
			})

		case *ast.Rule:
			if !parent.AcceptsChild(stmt) {
				return nil, lo.nestingError(parent, stmt)
			}
			body, err := lo.lowerChildren(stmt, stmt.Body, append(chain, selectorText(stmt.Selector)))
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.Rule{Token: stmt.Token, Selector: stmt.Selector, Body: body})

		case *ast.Directive:
			if !parent.AcceptsChild(stmt) {
				return nil, lo.nestingError(parent, stmt)
			}
			lowered := &ast.Directive{
				Token:   stmt.Token,
				Name:    stmt.Name,
				Prelude: stmt.Prelude,
				HasBody: stmt.HasBody,
			}
			if stmt.HasBody {
				body, err := lo.lowerChildren(stmt, stmt.Body, chain)
				if err != nil {
					return nil, err
				}
				lowered.Body = body
			}
			out = append(out, lowered)

		default:
			if !parent.AcceptsChild(stmt) {
				return nil, lo.nestingError(parent, stmt)
			}
			out = append(out, stmt)
		}
	}
	return out, nil
}

func (lo *lowerer) nestingError(parent ast.Container, child ast.Statement) *diagnostics.Diagnostic {
	where := "inside " + ast.Describe(parent)
	if _, ok := parent.(*ast.Stylesheet); ok {
		where = "at " + ast.Describe(parent)
	}
	return diagnostics.NewError(diagnostics.ErrS201, child.GetToken(),
		"%s is not allowed %s", ast.Describe(child), where)
}

// selectorText flattens a resolved interp. Parts that are not plain text
// should not survive evaluation; they contribute nothing here.
func selectorText(in *ast.Interp) string {
	out := ""
	for _, part := range in.Parts {
		if lit, ok := part.(*ast.StringLit); ok {
			out += lit.Value
		}
	}
	return out
}
