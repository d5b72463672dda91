package lowering

import (
	"reflect"
	"testing"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/evaluator"
	"github.com/stratacss/strata/internal/lexer"
	"github.com/stratacss/strata/internal/parser"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

func evaluated(t *testing.T, input string) *ast.Stylesheet {
	t.Helper()
	l := lexer.New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	p := parser.New(toks)
	sheet := p.ParseStylesheet()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0].Error())
	}
	sheet.File = "test.strata"
	ev := evaluator.New("test.strata")
	out, err := ev.EvalStylesheet(sheet, evaluator.NewEnvironment())
	if err != nil {
		t.Fatalf("evaluation failed: %s", err.Error())
	}
	return out
}

func lowerSource(t *testing.T, input string) (*ast.Stylesheet, *ExtendSet) {
	t.Helper()
	sheet, extends, err := Lower(evaluated(t, input))
	if err != nil {
		t.Fatalf("lowering failed: %s", err.Error())
	}
	return sheet, extends
}

func lowerError(t *testing.T, input string) *diagnostics.Diagnostic {
	t.Helper()
	_, _, err := Lower(evaluated(t, input))
	if err == nil {
		t.Fatalf("expected a lowering error, got none")
	}
	return err
}

func countIncludes(stmts []ast.Statement) int {
	n := 0
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.Include:
			n += 1 + countIncludes(stmt.Children)
		case *ast.Rule:
			n += countIncludes(stmt.Body)
		case *ast.Directive:
			n += countIncludes(stmt.Body)
		}
	}
	return n
}

func TestIncludeSplice(t *testing.T) {
	input := `@mixin corner() {
  border-radius: 4px;
  color: red;
}
.btn {
  @include corner();
  margin: 0;
}`
	sheet, _ := lowerSource(t, input)

	if got := countIncludes(sheet.Statements); got != 0 {
		t.Fatalf("lowered tree still holds %d include wrapper(s)", got)
	}
	rule, ok := sheet.Statements[0].(*ast.Rule)
	if !ok {
		t.Fatalf("statement[0] not *ast.Rule. got=%T", sheet.Statements[0])
	}
	if len(rule.Body) != 3 {
		t.Fatalf("rule body has %d statements, want 3", len(rule.Body))
	}
	for i, stmt := range rule.Body {
		if _, ok := stmt.(*ast.Declaration); !ok {
			t.Errorf("body[%d] not *ast.Declaration. got=%T", i, stmt)
		}
	}
}

func TestRootDeclarationRejected(t *testing.T) {
	err := lowerError(t, "color: red;\n")

	if err.Code != diagnostics.ErrS201 {
		t.Errorf("err.Code = %q, want %q", err.Code, diagnostics.ErrS201)
	}
	want := "a property declaration is not allowed at the stylesheet root"
	if err.Message != want {
		t.Errorf("err.Message = %q, want %q", err.Message, want)
	}
	if err.Line != 1 {
		t.Errorf("err.Line = %d, want 1", err.Line)
	}
}

func TestRootExtendRejected(t *testing.T) {
	err := lowerError(t, "@extend .error;\n")

	if err.Code != diagnostics.ErrS201 {
		t.Errorf("err.Code = %q, want %q", err.Code, diagnostics.ErrS201)
	}
	want := "@extend is not allowed at the stylesheet root"
	if err.Message != want {
		t.Errorf("err.Message = %q, want %q", err.Message, want)
	}
}

func TestLeftoverContentRejected(t *testing.T) {
	tree := &ast.Stylesheet{
		File: "test.strata",
		Statements: []ast.Statement{
			&ast.Rule{
				Token: token.Token{Type: token.IDENT, Lexeme: ".a", Line: 1, Column: 1},
				Selector: &ast.Interp{
					Parts: []ast.Expression{&ast.StringLit{Value: ".a"}},
				},
				Body: []ast.Statement{
					&ast.ContentDirective{
						Token: token.Token{Type: token.AT_CONTENT, Lexeme: "@content", Line: 2, Column: 3},
					},
				},
			},
		},
	}

	_, _, err := Lower(tree)
	if err == nil {
		t.Fatalf("expected a lowering error, got none")
	}
	want := "@content is not allowed inside a style rule"
	if err.Message != want {
		t.Errorf("err.Message = %q, want %q", err.Message, want)
	}
	if err.Line != 2 {
		t.Errorf("err.Line = %d, want 2", err.Line)
	}
}

func TestSpliceValidatesAgainstIncludeParent(t *testing.T) {
	input := `@mixin bad() {
  color: red;
}
@include bad();`
	err := lowerError(t, input)

	if err.Code != diagnostics.ErrS201 {
		t.Errorf("err.Code = %q, want %q", err.Code, diagnostics.ErrS201)
	}
	if err.Line != 2 {
		t.Errorf("err.Line = %d, want 2", err.Line)
	}
	if err.File != "test.strata" {
		t.Errorf("err.File = %q, want %q", err.File, "test.strata")
	}
	if len(err.Backtrace) != 1 {
		t.Fatalf("backtrace has %d frames, want 1", len(err.Backtrace))
	}
	frame := err.Backtrace[0]
	if frame.Mixin != "bad" || frame.File != "test.strata" || frame.Line != 4 {
		t.Errorf("frame = %+v, want {bad test.strata 4}", frame)
	}
}

func TestNestedSpliceBacktrace(t *testing.T) {
	input := `@mixin inner() {
  color: red;
}
@mixin outer() {
  @include inner();
}
@include outer();`
	err := lowerError(t, input)

	if err.Line != 2 {
		t.Errorf("err.Line = %d, want 2", err.Line)
	}
	if len(err.Backtrace) != 2 {
		t.Fatalf("backtrace has %d frames, want 2", len(err.Backtrace))
	}
	if err.Backtrace[0].Mixin != "inner" || err.Backtrace[0].Line != 5 {
		t.Errorf("frame[0] = %+v, want {inner test.strata 5}", err.Backtrace[0])
	}
	if err.Backtrace[1].Mixin != "outer" || err.Backtrace[1].Line != 7 {
		t.Errorf("frame[1] = %+v, want {outer test.strata 7}", err.Backtrace[1])
	}
}

func TestExtendCollected(t *testing.T) {
	input := `.warn {
  @extend .error;
  color: orange;
}`
	sheet, extends := lowerSource(t, input)

	if extends.Empty() {
		t.Fatalf("extend set is empty")
	}
	if len(extends.Pairs) != 1 {
		t.Fatalf("extend set has %d pairs, want 1", len(extends.Pairs))
	}
	pair := extends.Pairs[0]
	if !reflect.DeepEqual(pair.Chain, []string{".warn"}) {
		t.Errorf("pair.Chain = %v, want [.warn]", pair.Chain)
	}
	if pair.Target != ".error" {
		t.Errorf("pair.Target = %q, want %q", pair.Target, ".error")
	}

	rule := sheet.Statements[0].(*ast.Rule)
	if len(rule.Body) != 1 {
		t.Fatalf("rule body has %d statements, want 1 (extend stripped)", len(rule.Body))
	}
	if _, ok := rule.Body[0].(*ast.Declaration); !ok {
		t.Errorf("remaining statement not *ast.Declaration. got=%T", rule.Body[0])
	}
}

func TestNestedExtendChain(t *testing.T) {
	input := `nav {
  .item {
    @extend .active;
  }
}`
	_, extends := lowerSource(t, input)

	if len(extends.Pairs) != 1 {
		t.Fatalf("extend set has %d pairs, want 1", len(extends.Pairs))
	}
	want := []string{"nav", ".item"}
	if !reflect.DeepEqual(extends.Pairs[0].Chain, want) {
		t.Errorf("pair.Chain = %v, want %v", extends.Pairs[0].Chain, want)
	}
}

func TestExtendChainSkipsDirectives(t *testing.T) {
	input := `@media print {
  .note {
    @extend .quiet;
  }
}`
	_, extends := lowerSource(t, input)

	if len(extends.Pairs) != 1 {
		t.Fatalf("extend set has %d pairs, want 1", len(extends.Pairs))
	}
	want := []string{".note"}
	if !reflect.DeepEqual(extends.Pairs[0].Chain, want) {
		t.Errorf("pair.Chain = %v, want %v", extends.Pairs[0].Chain, want)
	}
}

func TestDeclarationInsideDirectiveAllowed(t *testing.T) {
	input := `@font-face {
  font-family: gothic;
}`
	sheet, _ := lowerSource(t, input)

	dir, ok := sheet.Statements[0].(*ast.Directive)
	if !ok {
		t.Fatalf("statement[0] not *ast.Directive. got=%T", sheet.Statements[0])
	}
	if len(dir.Body) != 1 {
		t.Fatalf("directive body has %d statements, want 1", len(dir.Body))
	}
	if _, ok := dir.Body[0].(*ast.Declaration); !ok {
		t.Errorf("directive child not *ast.Declaration. got=%T", dir.Body[0])
	}
}

func TestLowerIdempotent(t *testing.T) {
	input := `@mixin pad() {
  padding: 4px;
}
.box {
  @include pad();
  @extend .base;
}`
	once, extends := lowerSource(t, input)
	if len(extends.Pairs) != 1 {
		t.Fatalf("first pass collected %d pairs, want 1", len(extends.Pairs))
	}

	twice, second, err := Lower(once)
	if err != nil {
		t.Fatalf("second lowering failed: %s", err.Error())
	}
	if !second.Empty() {
		t.Errorf("second pass collected %d pairs, want 0", len(second.Pairs))
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second lowering changed the tree")
	}
}

func TestProcessorSkipsOnPriorErrors(t *testing.T) {
	ctx := pipeline.NewPipelineContext("color: red;")
	ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "unexpected token"))

	lp := &LoweringProcessor{}
	lp.Process(ctx)

	if len(ctx.Diagnostics) != 1 {
		t.Fatalf("processor added diagnostics on a failed context: %d", len(ctx.Diagnostics))
	}
	if ctx.Lowered != nil {
		t.Errorf("processor produced a tree on a failed context")
	}
}

func TestProcessorRequiresTree(t *testing.T) {
	ctx := pipeline.NewPipelineContext(".a { color: red; }")

	lp := &LoweringProcessor{}
	lp.Process(ctx)

	if len(ctx.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(ctx.Diagnostics))
	}
	if ctx.Diagnostics[0].Code != diagnostics.ErrP000 {
		t.Errorf("code = %q, want %q", ctx.Diagnostics[0].Code, diagnostics.ErrP000)
	}
}

func TestProcessorStoresResults(t *testing.T) {
	ctx := pipeline.NewPipelineContext(".a {\n  @extend .b;\n  color: red;\n}")
	ctx.FilePath = "test.strata"

	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&evaluator.EvaluatorProcessor{},
		&LoweringProcessor{},
	)
	pipe.Run(ctx)

	if ctx.Failed() {
		t.Fatalf("pipeline failed: %s", ctx.Diagnostics[0].Error())
	}
	if ctx.Lowered == nil {
		t.Fatalf("ctx.Lowered not set")
	}
	extends, ok := ctx.Extends.(*ExtendSet)
	if !ok {
		t.Fatalf("ctx.Extends is %T, want *ExtendSet", ctx.Extends)
	}
	if len(extends.Pairs) != 1 {
		t.Errorf("extend set has %d pairs, want 1", len(extends.Pairs))
	}
}
