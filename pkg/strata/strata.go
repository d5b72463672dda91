// Package strata compiles strata stylesheets to CSS.
//
// The package wraps the full compile pipeline behind two calls:
//
//	result, err := strata.Compile(source, strata.WithStyle("compressed"))
//	result, err := strata.CompileFile("ui/theme.strata")
//
// A failed compile returns a *CompileError holding every diagnostic the
// pipeline produced, including mixin backtraces.
package strata

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/evaluator"
	"github.com/stratacss/strata/internal/lexer"
	"github.com/stratacss/strata/internal/lowering"
	"github.com/stratacss/strata/internal/parser"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/render"
)

// Output styles accepted by WithStyle.
const (
	StyleNested     = render.StyleNested
	StyleCompressed = render.StyleCompressed
)

// Result holds the artifacts of a successful compile.
type Result struct {
	// CSS is the rendered stylesheet.
	CSS string

	// Extends lists the selector extensions collected during lowering,
	// with extender selectors already flattened.
	Extends []Extension

	// CompilationID tags this run. The same ID appears in cache rows
	// and log lines produced for it.
	CompilationID uuid.UUID
}

// Extension records one '@extend' occurrence: Selector wants to share
// the rules written for Target.
type Extension struct {
	Selector string
	Target   string
}

// Diagnostic is one compile error with its source position and, for
// errors raised inside mixins, the include backtrace innermost first.
type Diagnostic struct {
	Code      string
	Message   string
	File      string
	Line      int
	Column    int
	Backtrace []Frame
}

// Frame is one level of a mixin backtrace.
type Frame struct {
	Mixin string
	File  string
	Line  int
}

// CompileError is returned when the pipeline reports diagnostics.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "compile failed"
	}
	d := e.Diagnostics[0]
	msg := fmt.Sprintf("%s: %s", d.Code, d.Message)
	if d.File != "" {
		msg = fmt.Sprintf("%s (%s:%d:%d)", msg, d.File, d.Line, d.Column)
	}
	if rest := len(e.Diagnostics) - 1; rest > 0 {
		msg = fmt.Sprintf("%s and %d more", msg, rest)
	}
	return msg
}

// Option adjusts a compile.
type Option func(*options)

type options struct {
	style    string
	filename string
	logger   *slog.Logger
}

// WithStyle selects the output style, "nested" or "compressed".
func WithStyle(style string) Option {
	return func(o *options) { o.style = style }
}

// WithFilename sets the file name reported in diagnostics for sources
// compiled from memory.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithLogger enables debug logging of compile runs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Compile runs source through the pipeline and returns the rendered CSS.
func Compile(source string, opts ...Option) (*Result, error) {
	o := options{style: render.StyleNested}
	for _, opt := range opts {
		opt(&o)
	}
	switch o.style {
	case render.StyleNested, render.StyleCompressed:
	default:
		return nil, fmt.Errorf("unsupported style %q (want nested or compressed)", o.style)
	}

	start := time.Now()
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = o.filename
	ctx.Style = o.style
	pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&evaluator.EvaluatorProcessor{},
		&lowering.LoweringProcessor{},
		&render.RenderProcessor{},
	).Run(ctx)

	if ctx.Failed() {
		return nil, &CompileError{Diagnostics: convertDiagnostics(ctx.Diagnostics)}
	}

	if o.logger != nil {
		o.logger.Debug("compiled",
			"file", o.filename,
			"style", o.style,
			"compilation_id", ctx.CompilationID.String(),
			"elapsed", time.Since(start))
	}

	return &Result{
		CSS:           ctx.CSS,
		Extends:       convertExtends(ctx.Extends),
		CompilationID: ctx.CompilationID,
	}, nil
}

// CompileFile reads path and compiles it. Read failures come back as
// plain wrapped errors, compile failures as *CompileError.
func CompileFile(path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Compile(string(data), append([]Option{WithFilename(path)}, opts...)...)
}

func convertDiagnostics(ds []*diagnostics.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		pub := Diagnostic{
			Code:    d.Code,
			Message: d.Message,
			File:    d.File,
			Line:    d.Line,
			Column:  d.Column,
		}
		for _, f := range d.Backtrace {
			pub.Backtrace = append(pub.Backtrace, Frame{Mixin: f.Mixin, File: f.File, Line: f.Line})
		}
		out = append(out, pub)
	}
	return out
}

func convertExtends(v interface{}) []Extension {
	set, ok := v.(*lowering.ExtendSet)
	if !ok || set.Empty() {
		return nil
	}
	out := make([]Extension, 0, len(set.Pairs))
	for _, pair := range set.Pairs {
		out = append(out, Extension{
			Selector: render.JoinChain(pair.Chain),
			Target:   pair.Target,
		})
	}
	return out
}
