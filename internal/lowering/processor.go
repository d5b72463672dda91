package lowering

import (
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

type LoweringProcessor struct{}

func (lp *LoweringProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.Evaluated == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP000, token.Token{},
			"internal: lowering stage received no evaluated tree"))
		return ctx
	}

	lowered, extends, err := Lower(ctx.Evaluated)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Lowered = lowered
	ctx.Extends = extends
	return ctx
}
