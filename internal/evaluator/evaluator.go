package evaluator

import (
	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

// contentFrame captures the block passed to an include together with the
// scope it was written in. @content always runs against that scope, not
// the mixin's.
type contentFrame struct {
	body []ast.Statement // nil when the include passed no block
	env  *Environment
}

// Evaluator expands variables, mixins, and expressions, producing a tree
// of the same node kinds with every dynamic construct resolved.
type Evaluator struct {
	File         string
	CallStack    []CallFrame
	contentStack []contentFrame
}

func New(file string) *Evaluator {
	return &Evaluator{File: file}
}

func (e *Evaluator) EvalStylesheet(sheet *ast.Stylesheet, env *Environment) (*ast.Stylesheet, *diagnostics.Diagnostic) {
	stmts, err := e.evalStatements(sheet.Statements, env)
	if err != nil {
		return nil, err
	}
	return &ast.Stylesheet{File: sheet.File, Statements: stmts}, nil
}

func (e *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	var out []ast.Statement
	for _, stmt := range stmts {
		evaled, err := e.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		out = append(out, evaled...)
	}
	return out, nil
}

// evalStatement returns zero or more resolved statements: definitions
// produce none, @content may splice in several.
func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	switch stmt := stmt.(type) {
	case *ast.VariableDecl:
		val, err := e.EvalExpr(stmt.Value, env)
		if err != nil {
			return nil, err
		}
		env.SetLocal(stmt.Name, val)
		return nil, nil

	case *ast.MixinDef:
		env.DefineMixin(&Mixin{Name: stmt.Name, Params: stmt.Params, Body: stmt.Body, Env: env})
		return nil, nil

	case *ast.Rule:
		return e.evalRule(stmt, env)

	case *ast.Declaration:
		return e.evalDeclaration(stmt, env)

	case *ast.Include:
		return e.evalInclude(stmt, env)

	case *ast.ContentDirective:
		return e.evalContent(stmt)

	case *ast.Extend:
		text, err := e.resolveInterp(stmt.Selector, env)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{&ast.Extend{Token: stmt.Token, Selector: resolvedInterp(stmt.Token, text)}}, nil

	case *ast.Directive:
		return e.evalDirective(stmt, env)

	case *ast.Comment:
		return []ast.Statement{stmt}, nil
	}
	return nil, nil
}

func (e *Evaluator) evalRule(rule *ast.Rule, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	text, err := e.resolveInterp(rule.Selector, env)
	if err != nil {
		return nil, err
	}
	body, err := e.evalStatements(rule.Body, NewEnclosedEnvironment(env))
	if err != nil {
		return nil, err
	}
	resolved := &ast.Rule{
		Token:    rule.Token,
		Selector: resolvedInterp(rule.Token, text),
		Body:     body,
	}
	return []ast.Statement{resolved}, nil
}

func (e *Evaluator) evalDeclaration(decl *ast.Declaration, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	prop, err := e.resolveInterp(decl.Property, env)
	if err != nil {
		return nil, err
	}
	val, err := e.EvalExpr(decl.Value, env)
	if err != nil {
		return nil, err
	}
	if val.Type() == NULL_VALUE {
		// A null value erases the whole declaration.
		return nil, nil
	}
	resolved := &ast.Declaration{
		Token:     decl.Token,
		Property:  resolvedInterp(decl.Token, prop),
		Value:     &ast.StringLit{Token: decl.Value.GetToken(), Value: val.Inspect()},
		Important: decl.Important,
	}
	return []ast.Statement{resolved}, nil
}

func (e *Evaluator) evalDirective(dir *ast.Directive, env *Environment) ([]ast.Statement, *diagnostics.Diagnostic) {
	prelude, err := e.resolveInterp(dir.Prelude, env)
	if err != nil {
		return nil, err
	}
	resolved := &ast.Directive{
		Token:   dir.Token,
		Name:    dir.Name,
		Prelude: resolvedInterp(dir.Token, prelude),
		HasBody: dir.HasBody,
	}
	if dir.HasBody {
		body, err := e.evalStatements(dir.Body, NewEnclosedEnvironment(env))
		if err != nil {
			return nil, err
		}
		resolved.Body = body
	}
	return []ast.Statement{resolved}, nil
}

// evalContent expands the innermost content block. The frame is taken off
// the stack while its body runs so a nested @content inside the block
// resolves against the block's own context instead of recursing.
func (e *Evaluator) evalContent(stmt *ast.ContentDirective) ([]ast.Statement, *diagnostics.Diagnostic) {
	if len(e.contentStack) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrE109, stmt.Token,
			"@content may only be used within a mixin")
	}
	top := e.contentStack[len(e.contentStack)-1]
	if top.body == nil {
		return nil, diagnostics.NewError(diagnostics.ErrE109, stmt.Token,
			"no @content block was passed to this mixin")
	}
	e.popContent()
	defer e.pushContent(top)
	return e.evalStatements(top.body, top.env)
}

func (e *Evaluator) pushContent(frame contentFrame) {
	e.contentStack = append(e.contentStack, frame)
}

func (e *Evaluator) popContent() {
	if len(e.contentStack) > 0 {
		e.contentStack = e.contentStack[:len(e.contentStack)-1]
	}
}

// resolveInterp flattens an interp into final text. Quoted string values
// lose their quotes inside interpolation.
func (e *Evaluator) resolveInterp(in *ast.Interp, env *Environment) (string, *diagnostics.Diagnostic) {
	out := ""
	for _, part := range in.Parts {
		val, err := e.EvalExpr(part, env)
		if err != nil {
			return "", err
		}
		out += interpText(val)
	}
	return out, nil
}

// resolvedInterp wraps final text in the one-part form the later stages
// expect.
func resolvedInterp(tok token.Token, text string) *ast.Interp {
	return &ast.Interp{Token: tok, Parts: []ast.Expression{&ast.StringLit{Token: tok, Value: text}}}
}
