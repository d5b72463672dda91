package lexer

import (
	"strings"

	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/token"
)

// LexerProcessor is the pipeline stage that turns source text into a token
// stream. Stray characters and unterminated constructs become diagnostics;
// scanning continues so one bad character does not hide the rest.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)

	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			ctx.AddError(illegalToDiagnostic(tok))
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	ctx.Tokens = tokens
	return ctx
}

func illegalToDiagnostic(tok token.Token) *diagnostics.Diagnostic {
	msg, _ := tok.Literal.(string)
	switch {
	case strings.HasPrefix(msg, "unterminated string"):
		return diagnostics.NewError(diagnostics.ErrL001, tok, "unterminated string")
	case strings.HasPrefix(msg, "unterminated comment"):
		return diagnostics.NewError(diagnostics.ErrL002, tok, "unterminated comment")
	case strings.HasPrefix(msg, "unterminated script"):
		return diagnostics.NewError(diagnostics.ErrL001, tok, "unterminated script")
	default:
		return diagnostics.NewError(diagnostics.ErrL003, tok, "unexpected character %q", tok.Lexeme)
	}
}
