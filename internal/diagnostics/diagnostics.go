package diagnostics

import (
	"fmt"
	"strings"

	"github.com/stratacss/strata/internal/token"
)

// Error codes, grouped by pipeline stage.
const (
	ErrL001 = "L001" // unterminated string
	ErrL002 = "L002" // unterminated comment
	ErrL003 = "L003" // stray character

	ErrP000 = "P000" // internal: stage input missing
	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // expected a specific token
	ErrP003 = "P003" // malformed number or color
	ErrP004 = "P004" // duplicate keyword argument
	ErrP005 = "P005" // script compile failure

	ErrE101 = "E101" // undefined variable
	ErrE102 = "E102" // undefined mixin
	ErrE103 = "E103" // too many positional arguments
	ErrE104 = "E104" // unknown keyword argument
	ErrE105 = "E105" // missing parameter
	ErrE106 = "E106" // include loop
	ErrE107 = "E107" // script runtime failure
	ErrE108 = "E108" // invalid operand
	ErrE109 = "E109" // @content outside a mixin

	ErrS201 = "S201" // invalid nesting

	ErrC301 = "C301" // bad config file
	ErrC302 = "C302" // cache failure
)

// Frame is one level of a mixin call chain. Backtraces are ordered
// innermost first; each call level appends exactly one frame on the way out.
type Frame struct {
	Mixin string
	File  string
	Line  int
}

// Diagnostic is the error value shared by every compiler stage. The primary
// location points at the token that produced the error; Backtrace carries
// the mixin call chain when the error crossed @include boundaries.
type Diagnostic struct {
	Code      string
	Message   string
	File      string
	Line      int
	Column    int
	Backtrace []Frame
}

func NewError(code string, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(d.Code)
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.File != "" || d.Line > 0 {
		fmt.Fprintf(&sb, " (%s:%d:%d)", d.File, d.Line, d.Column)
	}
	for _, f := range d.Backtrace {
		sb.WriteString("\n")
		sb.WriteString(formatFrame(f))
	}
	return sb.String()
}

func formatFrame(f Frame) string {
	loc := f.File
	if loc == "" {
		loc = "?"
	}
	if f.Mixin != "" {
		return fmt.Sprintf("  in mixin %s (%s:%d)", f.Mixin, loc, f.Line)
	}
	return fmt.Sprintf("  in %s:%d", loc, f.Line)
}

// WithFrame appends one call level to the backtrace and returns the same
// diagnostic so call sites can annotate and re-return in one expression.
func (d *Diagnostic) WithFrame(mixin, file string, line int) *Diagnostic {
	d.Backtrace = append(d.Backtrace, Frame{Mixin: mixin, File: file, Line: line})
	return d
}

// ModifyTrace fills unset location fields on the most recently appended
// frame, or on the primary location when no frame exists yet. Used by the
// lowering pass, which annotates with the static call site instead of a
// live frame stack.
func (d *Diagnostic) ModifyTrace(mixin, file string, line int) {
	if len(d.Backtrace) == 0 {
		if d.File == "" {
			d.File = file
		}
		if d.Line == 0 {
			d.Line = line
		}
		return
	}
	f := &d.Backtrace[len(d.Backtrace)-1]
	if f.Mixin == "" {
		f.Mixin = mixin
	}
	if f.File == "" {
		f.File = file
	}
	if f.Line == 0 {
		f.Line = line
	}
}
