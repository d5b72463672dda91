package parser

import (
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

// ParserProcessor is the pipeline stage that builds the stylesheet tree.
// It runs even when the lexer reported problems so one pass can surface
// as much as possible; later stages stop on any accumulated error.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP000, token.Token{},
			"internal: parser stage received no token stream"))
		return ctx
	}

	p := New(ctx.Tokens)
	root := p.ParseStylesheet()
	root.File = ctx.FilePath

	for _, err := range p.Errors() {
		ctx.AddError(err)
	}
	ctx.Root = root
	return ctx
}
