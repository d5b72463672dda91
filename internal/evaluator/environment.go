package evaluator

import (
	"strings"

	"github.com/stratacss/strata/internal/ast"
)

// Mixin is a mixin definition bound to the environment it was defined in.
// The body always executes against a child of Env, no matter where the
// include appears.
type Mixin struct {
	Name   string
	Params []*ast.Param
	Body   []ast.Statement
	Env    *Environment
}

// Environment is one lexical scope in the chain. Variable and mixin
// lookups walk outward; definitions always land in the innermost scope.
type Environment struct {
	locals map[string]Value
	mixins map[string]*Mixin
	outer  *Environment
}

func NewEnvironment() *Environment {
	return &Environment{
		locals: make(map[string]Value),
		mixins: make(map[string]*Mixin),
	}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) LookupVar(name string) (Value, bool) {
	v, ok := e.locals[name]
	if !ok && e.outer != nil {
		return e.outer.LookupVar(name)
	}
	return v, ok
}

func (e *Environment) SetLocal(name string, v Value) {
	e.locals[name] = v
}

func (e *Environment) LookupMixin(name string) (*Mixin, bool) {
	m, ok := e.mixins[name]
	if !ok && e.outer != nil {
		return e.outer.LookupMixin(name)
	}
	return m, ok
}

func (e *Environment) DefineMixin(m *Mixin) {
	e.mixins[m.Name] = m
}

// VarNames collects every visible variable name, innermost scope last so
// shadowed names appear once.
func (e *Environment) VarNames() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.outer {
		for name := range env.locals {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func (e *Environment) MixinNames() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.outer {
		for name := range env.mixins {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Snapshot flattens the visible variables into a script environment.
// Hyphenated names become underscored so they survive as identifiers.
func (e *Environment) Snapshot() map[string]interface{} {
	var m map[string]interface{}
	if e.outer != nil {
		m = e.outer.Snapshot()
	} else {
		m = make(map[string]interface{})
	}
	for name, v := range e.locals {
		m[strings.ReplaceAll(name, "-", "_")] = scriptValue(v)
	}
	return m
}

// scriptValue converts a style-sheet value into what a script sees.
// Numbers drop their unit; scripts work on bare magnitudes.
func scriptValue(v Value) interface{} {
	switch v := v.(type) {
	case *Number:
		return v.Value
	case *Str:
		return v.Value
	case *Bool:
		return v.Value
	case *Null:
		return nil
	case *Color:
		return v.Inspect()
	case *List:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, scriptValue(item))
		}
		return items
	}
	return nil
}
