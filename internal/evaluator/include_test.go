package evaluator

import (
	"strings"
	"testing"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
)

func TestUndefinedMixin(t *testing.T) {
	err := evalError(t, "@mixin rounded { r: 1px; }\na { @include round; }")

	if err.Code != diagnostics.ErrE102 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE102)
	}
	if !strings.Contains(err.Message, "Undefined mixin 'round'") {
		t.Errorf("message wrong. got=%q", err.Message)
	}
	if !strings.Contains(err.Message, "did you mean rounded?") {
		t.Errorf("suggestion missing. got=%q", err.Message)
	}
	if len(err.Backtrace) != 0 {
		t.Errorf("lookup failure should carry no frames. got=%d", len(err.Backtrace))
	}
}

func TestSelfIncludeLoop(t *testing.T) {
	err := evalError(t, "@mixin loop { @include loop; }\na { @include loop; }")

	if err.Code != diagnostics.ErrE106 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE106)
	}
	want := "An @include loop has been found: loop includes itself"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestChainIncludeLoop(t *testing.T) {
	err := evalError(t, "@mixin a { @include b; }\n@mixin b { @include a; }\nx { @include a; }")

	if err.Code != diagnostics.ErrE106 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE106)
	}
	want := "An @include loop has been found:\n    a includes b\n    b includes a"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestThreeHopIncludeLoop(t *testing.T) {
	err := evalError(t,
		"@mixin a { @include b; }\n@mixin b { @include c; }\n@mixin c { @include a; }\nx { @include a; }")

	want := "An @include loop has been found:\n    a includes b\n    b includes c\n    c includes a"
	if err.Message != want {
		t.Errorf("message wrong.\ngot=%q\nwant=%q", err.Message, want)
	}
}

func TestCallStackBalancedAfterSuccess(t *testing.T) {
	ev, _, err := runEval(t, "@mixin a { @include b; }\n@mixin b { x: 1; }\nr { @include a; }")

	if err != nil {
		t.Fatalf("evaluation failed: %s", err.Error())
	}
	if len(ev.CallStack) != 0 {
		t.Errorf("call stack not drained. got=%d frames", len(ev.CallStack))
	}
}

func TestCallStackBalancedAfterFailure(t *testing.T) {
	ev, _, err := runEval(t, "@mixin a { @include b; }\n@mixin b { x: $missing; }\nr { @include a; }")

	if err == nil {
		t.Fatalf("expected an error")
	}
	if len(ev.CallStack) != 0 {
		t.Errorf("call stack not drained after failure. got=%d frames", len(ev.CallStack))
	}
}

func TestBacktraceThreeLevels(t *testing.T) {
	err := evalError(t,
		"@mixin c { w: $missing; }\n@mixin b { @include c; }\n@mixin a { @include b; }\nx { @include a; }")

	if err.Code != diagnostics.ErrE101 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE101)
	}
	if err.Line != 1 {
		t.Errorf("primary line wrong. got=%d, want=1", err.Line)
	}
	if len(err.Backtrace) != 3 {
		t.Fatalf("frame count wrong. got=%d, want=3", len(err.Backtrace))
	}

	expected := []struct {
		mixin string
		line  int
	}{
		{"c", 2}, // innermost first
		{"b", 3},
		{"a", 4},
	}
	for i, want := range expected {
		frame := err.Backtrace[i]
		if frame.Mixin != want.mixin {
			t.Errorf("frame[%d] mixin wrong. got=%q, want=%q", i, frame.Mixin, want.mixin)
		}
		if frame.Line != want.line {
			t.Errorf("frame[%d] line wrong. got=%d, want=%d", i, frame.Line, want.line)
		}
		if frame.File != "test.strata" {
			t.Errorf("frame[%d] file wrong. got=%q", i, frame.File)
		}
	}
}

func TestBinderErrorCarriesFrame(t *testing.T) {
	err := evalError(t, "@mixin inner($x) { w: $x; }\n@mixin outer { @include inner; }\nr { @include outer; }")

	if err.Code != diagnostics.ErrE105 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE105)
	}
	if len(err.Backtrace) != 2 {
		t.Fatalf("frame count wrong. got=%d, want=2", len(err.Backtrace))
	}
	if err.Backtrace[0].Mixin != "inner" || err.Backtrace[1].Mixin != "outer" {
		t.Errorf("frames wrong. got=%q, %q", err.Backtrace[0].Mixin, err.Backtrace[1].Mixin)
	}
}

func TestContentBlockExpansion(t *testing.T) {
	sheet := evalSource(t,
		"@mixin wrap { .w { @content; } }\na { @include wrap { color: red; } }")

	rule := ruleAt(t, sheet.Statements, 0)
	inc := rule.Body[0].(*ast.Include)
	wrapped := ruleAt(t, inc.Children, 0)
	prop, val := declInfo(t, wrapped.Body[0])
	if prop != "color" || val != "red" {
		t.Errorf("content not expanded. got=%s: %s", prop, val)
	}
}

func TestContentSeesCallerScope(t *testing.T) {
	sheet := evalSource(t,
		"$c: green;\n@mixin wrap { @content; }\na { $c: blue; @include wrap { color: $c; } }")

	rule := ruleAt(t, sheet.Statements, 0)
	inc := rule.Body[0].(*ast.Include)
	_, val := declInfo(t, inc.Children[0])
	if val != "blue" {
		t.Errorf("content body saw the wrong scope. got=%q, want=%q", val, "blue")
	}
}

func TestContentNotShadowedByMixinScope(t *testing.T) {
	sheet := evalSource(t,
		"@mixin wrap($c: red) { @content; }\na { $c: blue; @include wrap { color: $c; } }")

	rule := ruleAt(t, sheet.Statements, 0)
	inc := rule.Body[0].(*ast.Include)
	_, val := declInfo(t, inc.Children[0])
	if val != "blue" {
		t.Errorf("mixin parameter leaked into the content block. got=%q", val)
	}
}

func TestEmptyContentBlockAllowed(t *testing.T) {
	sheet := evalSource(t, "@mixin wrap { @content; b: 2; }\na { @include wrap {} }")

	rule := ruleAt(t, sheet.Statements, 0)
	inc := rule.Body[0].(*ast.Include)
	if len(inc.Children) != 1 {
		t.Fatalf("children wrong. got=%d, want=1", len(inc.Children))
	}
}

func TestContentWithoutBlock(t *testing.T) {
	err := evalError(t, "@mixin wrap { @content; }\na { @include wrap; }")

	if err.Code != diagnostics.ErrE109 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE109)
	}
	if !strings.Contains(err.Message, "no @content block was passed") {
		t.Errorf("message wrong. got=%q", err.Message)
	}
}

func TestContentOutsideMixin(t *testing.T) {
	err := evalError(t, "a { @content; }")

	if err.Code != diagnostics.ErrE109 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE109)
	}
	if !strings.Contains(err.Message, "only be used within a mixin") {
		t.Errorf("message wrong. got=%q", err.Message)
	}
}

func TestNestedIncludesDoNotShareContent(t *testing.T) {
	// inner runs without a block even though outer's include passed one.
	err := evalError(t,
		"@mixin inner { @content; }\n@mixin outer { @include inner; }\na { @include outer { color: red; } }")

	if err.Code != diagnostics.ErrE109 {
		t.Errorf("code wrong. got=%q, want=%q", err.Code, diagnostics.ErrE109)
	}
}

func TestSameMixinSequentialIncludesAllowed(t *testing.T) {
	sheet := evalSource(t, "@mixin pad { p: 1; }\na { @include pad; @include pad; }")

	rule := ruleAt(t, sheet.Statements, 0)
	if len(rule.Body) != 2 {
		t.Errorf("sequential includes wrong. got=%d statements", len(rule.Body))
	}
}
