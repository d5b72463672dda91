package evaluator

import (
	"testing"

	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

func TestProcessorSkipsOnPriorErrors(t *testing.T) {
	ctx := pipeline.NewPipelineContext("a { b: c; }")
	ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "boom"))

	ep := &EvaluatorProcessor{}
	ctx = ep.Process(ctx)

	if ctx.Evaluated != nil {
		t.Errorf("evaluation ran despite prior errors")
	}
	if len(ctx.Diagnostics) != 1 {
		t.Errorf("diagnostics count changed. got=%d", len(ctx.Diagnostics))
	}
}

func TestProcessorRequiresTree(t *testing.T) {
	ctx := pipeline.NewPipelineContext("a { b: c; }")

	ep := &EvaluatorProcessor{}
	ctx = ep.Process(ctx)

	if len(ctx.Diagnostics) != 1 {
		t.Fatalf("diagnostics count wrong. got=%d, want=1", len(ctx.Diagnostics))
	}
	if ctx.Diagnostics[0].Code != diagnostics.ErrP000 {
		t.Errorf("code wrong. got=%q, want=%q", ctx.Diagnostics[0].Code, diagnostics.ErrP000)
	}
}

func TestProcessorStoresEvaluatedTree(t *testing.T) {
	ctx := pipeline.NewPipelineContext("$c: red;\na { color: $c; }")
	ctx.FilePath = "test.strata"
	ctx.Root = parseSource(t, ctx.SourceCode)

	ep := &EvaluatorProcessor{}
	ctx = ep.Process(ctx)

	if len(ctx.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics[0])
	}
	if ctx.Evaluated == nil {
		t.Fatalf("evaluated tree missing")
	}
	if len(ctx.Evaluated.Statements) != 1 {
		t.Errorf("statement count wrong. got=%d, want=1", len(ctx.Evaluated.Statements))
	}
}

func TestProcessorRecordsEvaluationError(t *testing.T) {
	ctx := pipeline.NewPipelineContext("a { c: $missing; }")
	ctx.FilePath = "test.strata"
	ctx.Root = parseSource(t, ctx.SourceCode)

	ep := &EvaluatorProcessor{}
	ctx = ep.Process(ctx)

	if len(ctx.Diagnostics) != 1 {
		t.Fatalf("diagnostics count wrong. got=%d, want=1", len(ctx.Diagnostics))
	}
	if ctx.Diagnostics[0].Code != diagnostics.ErrE101 {
		t.Errorf("code wrong. got=%q", ctx.Diagnostics[0].Code)
	}
	if ctx.Diagnostics[0].File != "test.strata" {
		t.Errorf("file not stamped. got=%q", ctx.Diagnostics[0].File)
	}
}
