package render

import (
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

type RenderProcessor struct{}

func (rp *RenderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.Lowered == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP000, token.Token{},
			"internal: render stage received no lowered tree"))
		return ctx
	}

	style := ctx.Style
	if style == "" {
		style = StyleNested
	}
	ctx.CSS = New(style).Render(ctx.Lowered)
	return ctx
}
