package diagnostics

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	severity lipgloss.Style
	code     lipgloss.Style
	location lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
	trace    lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain}
	}
	return palette{
		severity: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		code:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		location: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		trace:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Render formats a diagnostic for the terminal: severity header, location,
// a source snippet with a caret under the offending column, and the mixin
// call chain. source may be empty, in which case the snippet is omitted.
func Render(d *Diagnostic, source string, color bool) string {
	p := newPalette(color)
	var sb strings.Builder

	sb.WriteString(p.severity.Render("error"))
	sb.WriteString(p.code.Render("[" + d.Code + "]"))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	if d.File != "" || d.Line > 0 {
		loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
		sb.WriteString("  " + p.gutter.Render("-->") + " " + p.location.Render(loc) + "\n")
	}

	if snippet := snippetLine(source, d.Line); snippet != "" {
		gutter := strconv.Itoa(d.Line)
		pad := strings.Repeat(" ", len(gutter))
		sb.WriteString(p.gutter.Render(pad+" |") + "\n")
		sb.WriteString(p.gutter.Render(gutter+" |") + " " + snippet + "\n")
		if d.Column > 0 {
			sb.WriteString(p.gutter.Render(pad+" |") + " " + caretIndent(snippet, d.Column) + p.caret.Render("^") + "\n")
		}
	}

	for _, f := range d.Backtrace {
		sb.WriteString(p.trace.Render("  = "+strings.TrimSpace(formatFrame(f))) + "\n")
	}
	return sb.String()
}

// Fprint renders every diagnostic to w, separated by blank lines.
func Fprint(w io.Writer, ds []*Diagnostic, source string, color bool) {
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, Render(d, source, color))
	}
}

func snippetLine(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// caretIndent mirrors the snippet's leading tabs so the caret lines up even
// when the source line is tab-indented.
func caretIndent(snippet string, column int) string {
	var sb strings.Builder
	for i, ch := range snippet {
		if i >= column-1 {
			break
		}
		if ch == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
