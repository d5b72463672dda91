package pipeline

import (
	"github.com/google/uuid"

	"github.com/stratacss/strata/internal/ast"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/token"
)

// Processor is a single pipeline stage. Stages live next to the code they
// drive (lexer.Processor, parser.Processor, ...) and communicate only
// through the context.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one compilation unit through the pipeline. Each
// stage reads the artifacts of earlier stages and records its own.
type PipelineContext struct {
	// CompilationID tags every artifact of this run (cache rows, logs).
	CompilationID uuid.UUID

	FilePath   string
	SourceCode string

	// Output style for the render stage: "nested" or "compressed".
	Style string

	Tokens    []token.Token
	Root      *ast.Stylesheet // parsed tree
	Evaluated *ast.Stylesheet // after mixin/variable expansion
	Lowered   *ast.Stylesheet // after structural lowering
	CSS       string          // rendered output

	// Extends holds the collected selector-extension set after lowering.
	// Stored untyped to keep stage packages decoupled; consumers assert
	// the concrete type.
	Extends interface{}

	Diagnostics []*diagnostics.Diagnostic
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{
		CompilationID: uuid.New(),
		SourceCode:    sourceCode,
	}
}

// Failed reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Diagnostics) > 0
}

// AddError appends a diagnostic, stamping the context's file path onto it
// if the producer did not know the file.
func (ctx *PipelineContext) AddError(err *diagnostics.Diagnostic) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Diagnostics = append(ctx.Diagnostics, err)
}
