package evaluator

import (
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

// EvaluatorProcessor is the pipeline stage that resolves the tree.
// Evaluation aborts on the first error, so it refuses to run when
// earlier stages already reported problems.
type EvaluatorProcessor struct{}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.Root == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP000, token.Token{},
			"internal: evaluation stage received no syntax tree"))
		return ctx
	}

	ev := New(ctx.FilePath)
	evaled, err := ev.EvalStylesheet(ctx.Root, NewEnvironment())
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Evaluated = evaled
	return ctx
}
