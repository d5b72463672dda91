package evaluator

import (
	"strings"
	"testing"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
)

func includeChildren(t *testing.T, sheet *ast.Stylesheet) []ast.Statement {
	t.Helper()
	rule := ruleAt(t, sheet.Statements, len(sheet.Statements)-1)
	inc, ok := rule.Body[0].(*ast.Include)
	if !ok {
		t.Fatalf("rule body[0] not *ast.Include. got=%T", rule.Body[0])
	}
	return inc.Children
}

func TestPositionalBinding(t *testing.T) {
	sheet := evalSource(t, "@mixin box($w, $h) { width: $w; height: $h; }\na { @include box(1px, 2px); }")

	children := includeChildren(t, sheet)
	_, w := declInfo(t, children[0])
	_, h := declInfo(t, children[1])
	if w != "1px" || h != "2px" {
		t.Errorf("bound values wrong. got w=%q h=%q", w, h)
	}
}

func TestKeywordBinding(t *testing.T) {
	sheet := evalSource(t, "@mixin box($w, $h) { width: $w; height: $h; }\na { @include box($h: 2px, $w: 1px); }")

	children := includeChildren(t, sheet)
	_, w := declInfo(t, children[0])
	_, h := declInfo(t, children[1])
	if w != "1px" || h != "2px" {
		t.Errorf("keyword binding wrong. got w=%q h=%q", w, h)
	}
}

func TestMixedPositionalAndKeyword(t *testing.T) {
	sheet := evalSource(t, "@mixin box($w, $h: 9px) { width: $w; height: $h; }\na { @include box(1px, $h: 2px); }")

	children := includeChildren(t, sheet)
	_, w := declInfo(t, children[0])
	_, h := declInfo(t, children[1])
	if w != "1px" || h != "2px" {
		t.Errorf("mixed binding wrong. got w=%q h=%q", w, h)
	}
}

func TestDefaultApplied(t *testing.T) {
	sheet := evalSource(t, "@mixin pad($p: 4px) { padding: $p; }\na { @include pad; }")

	_, p := declInfo(t, includeChildren(t, sheet)[0])
	if p != "4px" {
		t.Errorf("default wrong. got=%q, want=%q", p, "4px")
	}
}

func TestDefaultForwardReference(t *testing.T) {
	sheet := evalSource(t, "@mixin m($a: 1px, $b: $a) { w: $b; }\nx { @include m; }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != "1px" {
		t.Errorf("forward default wrong. got=%q, want=%q", val, "1px")
	}
}

func TestDefaultSeesCallerOverride(t *testing.T) {
	sheet := evalSource(t, "@mixin m($a: 1px, $b: $a) { w: $b; }\nx { @include m(5px); }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != "5px" {
		t.Errorf("default did not see the bound parameter. got=%q, want=%q", val, "5px")
	}
}

func TestKeywordSeesEarlierParam(t *testing.T) {
	sheet := evalSource(t, "@mixin m($a: 3px, $b: 9px) { w: $b; }\nx { @include m($b: $a); }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != "3px" {
		t.Errorf("keyword argument did not evaluate in the new scope. got=%q, want=%q", val, "3px")
	}
}

func TestDefaultComputedFromEarlierParam(t *testing.T) {
	sheet := evalSource(t, "@mixin m($w, $half: $w / 2) { h: $half; }\nx { @include m(10px); }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != "5px" {
		t.Errorf("computed default wrong. got=%q, want=%q", val, "5px")
	}
}

func TestLegacyDefaultUnquotes(t *testing.T) {
	sheet := evalSource(t, `@mixin m($s = "foo") { content: $s; }`+"\nx { @include m; }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != "foo" {
		t.Errorf("legacy default kept its quotes. got=%q, want=%q", val, "foo")
	}
}

func TestModernDefaultKeepsQuotes(t *testing.T) {
	sheet := evalSource(t, `@mixin m($s: "foo") { content: $s; }`+"\nx { @include m; }")

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != `"foo"` {
		t.Errorf("modern default lost its quotes. got=%q, want=%q", val, `"foo"`)
	}
}

func TestLegacyDefaultLeavesPassedValue(t *testing.T) {
	sheet := evalSource(t, `@mixin m($s = "foo") { content: $s; }`+"\n"+`x { @include m("bar"); }`)

	_, val := declInfo(t, includeChildren(t, sheet)[0])
	if val != `"bar"` {
		t.Errorf("passed argument should keep its quotes. got=%q, want=%q", val, `"bar"`)
	}
}

func TestTooManyArguments(t *testing.T) {
	err := evalError(t, "@mixin box($w) { width: $w; }\na { @include box(1px, 2px); }")

	if err.Code != diagnostics.ErrE103 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE103)
	}
	want := "Mixin box takes 1 argument but 2 were passed"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestTooManyArgumentsPlural(t *testing.T) {
	err := evalError(t, "@mixin box($w, $h) { width: $w; }\na { @include box(1px, 2px, 3px); }")

	want := "Mixin box takes 2 arguments but 3 were passed"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestUnknownKeywordArgument(t *testing.T) {
	err := evalError(t, "@mixin box($width) { width: $width; }\na { @include box($widht: 1px); }")

	if err.Code != diagnostics.ErrE104 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE104)
	}
	if !strings.Contains(err.Message, "doesn't have an argument named $widht") {
		t.Errorf("message wrong. got=%q", err.Message)
	}
	if !strings.Contains(err.Message, "did you mean $width?") {
		t.Errorf("suggestion missing. got=%q", err.Message)
	}
}

func TestArgumentByPositionAndName(t *testing.T) {
	err := evalError(t, "@mixin box($w, $h: 1px) { width: $w; }\na { @include box(1px, $w: 2px); }")

	if err.Code != diagnostics.ErrE104 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE104)
	}
	want := "Mixin box was passed argument $w both by position and by name"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestMissingArgument(t *testing.T) {
	err := evalError(t, "@mixin box($w, $h) { width: $w; }\na { @include box(1px); }")

	if err.Code != diagnostics.ErrE105 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE105)
	}
	want := "Mixin box is missing argument $h"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}
