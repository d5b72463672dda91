package render

import (
	"bytes"
	"strings"

	"github.com/stratacss/strata/internal/ast"
)

// Output styles. Nested indents blocks by their rule depth and keeps
// comments; compressed strips everything the browser does not need.
const (
	StyleNested     = "nested"
	StyleCompressed = "compressed"
)

type Renderer struct {
	buf        bytes.Buffer
	compressed bool
}

func New(style string) *Renderer {
	return &Renderer{compressed: style == StyleCompressed}
}

// Render writes the lowered tree as CSS text. The tree must already be
// flattened: include wrappers spliced, selectors and values resolved.
func (r *Renderer) Render(sheet *ast.Stylesheet) string {
	r.buf.Reset()
	r.renderStatements(sheet.Statements, nil, 0)
	return r.buf.String()
}

// renderStatements walks one statement level. parents is the flattened
// selector list of the enclosing rules; bare declarations and comments
// are grouped into runs so a directive body like @font-face emits its
// declarations without inventing a selector.
func (r *Renderer) renderStatements(stmts []ast.Statement, parents []string, depth int) {
	var run []ast.Statement
	flush := func() {
		if len(run) > 0 {
			r.flushRun(run, parents, depth)
			run = nil
		}
	}
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.Rule:
			flush()
			r.renderRule(stmt, parents, depth)
		case *ast.Directive:
			flush()
			r.renderDirective(stmt, parents, depth)
		case *ast.Declaration, *ast.Comment:
			run = append(run, stmt)
		}
	}
	flush()
}

func (r *Renderer) renderRule(rule *ast.Rule, parents []string, depth int) {
	sels := joinSelectors(parents, splitSelectors(flatText(rule.Selector)))

	var inline, children []ast.Statement
	for _, stmt := range rule.Body {
		switch stmt.(type) {
		case *ast.Rule, *ast.Directive:
			children = append(children, stmt)
		default:
			inline = append(inline, stmt)
		}
	}

	lines := r.inlineTexts(inline)
	childDepth := depth
	if len(lines) > 0 {
		r.emitBlock(strings.Join(sels, r.selectorSep()), lines, depth)
		childDepth = depth + 1
	}
	r.renderStatements(children, sels, childDepth)
}

func (r *Renderer) renderDirective(dir *ast.Directive, parents []string, depth int) {
	header := "@" + dir.Name
	if prelude := flatText(dir.Prelude); prelude != "" {
		header += " " + prelude
	}

	if !dir.HasBody {
		if r.compressed {
			r.write(header + ";")
			return
		}
		r.gap(depth)
		r.writeIndent(depth)
		r.write(header + ";")
		r.writeln()
		return
	}

	if r.compressed {
		r.write(header + "{")
		r.renderStatements(dir.Body, parents, 0)
		r.trimSemi()
		r.write("}")
		return
	}
	r.gap(depth)
	r.writeIndent(depth)
	r.write(header + " {")
	r.writeln()
	r.renderStatements(dir.Body, parents, depth+1)
	r.cuddle()
}

// flushRun emits a run of declarations and comments. With a parent
// selector the run becomes a block (declarations bubbled into a
// directive); without one the lines are written bare.
func (r *Renderer) flushRun(run []ast.Statement, parents []string, depth int) {
	lines := r.inlineTexts(run)
	if len(lines) == 0 {
		return
	}
	if len(parents) > 0 {
		r.emitBlock(strings.Join(parents, r.selectorSep()), lines, depth)
		return
	}
	if r.compressed {
		for _, line := range lines {
			r.write(line)
		}
		return
	}
	r.gap(depth)
	for _, line := range lines {
		r.writeIndent(depth)
		r.write(line)
		r.writeln()
	}
}

func (r *Renderer) emitBlock(selector string, lines []string, depth int) {
	if r.compressed {
		r.write(selector + "{")
		for _, line := range lines {
			r.write(line)
		}
		r.trimSemi()
		r.write("}")
		return
	}
	r.gap(depth)
	r.writeIndent(depth)
	r.write(selector + " {")
	r.writeln()
	for _, line := range lines {
		r.writeIndent(depth + 1)
		r.write(line)
		r.writeln()
	}
	r.cuddle()
}

// inlineTexts renders declarations and comments to finished lines.
// Declarations keep their trailing semicolon; compressed output trims
// the last one at block close.
func (r *Renderer) inlineTexts(items []ast.Statement) []string {
	var out []string
	for _, item := range items {
		switch item := item.(type) {
		case *ast.Declaration:
			out = append(out, r.declText(item)+";")
		case *ast.Comment:
			if r.compressed && !item.Loud {
				continue
			}
			out = append(out, "/*"+item.Text+"*/")
		}
	}
	return out
}

func (r *Renderer) declText(decl *ast.Declaration) string {
	sep, bang := ": ", " !important"
	if r.compressed {
		sep, bang = ":", "!important"
	}
	line := flatText(decl.Property) + sep + valueText(decl.Value)
	if decl.Important {
		line += bang
	}
	return line
}

func (r *Renderer) selectorSep() string {
	if r.compressed {
		return ","
	}
	return ", "
}

func (r *Renderer) write(s string) {
	r.buf.WriteString(s)
}

func (r *Renderer) writeln() {
	r.buf.WriteString("\n")
}

func (r *Renderer) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		r.buf.WriteString("  ")
	}
}

// gap separates top level blocks with a blank line. Child blocks follow
// their parent directly.
func (r *Renderer) gap(depth int) {
	if r.compressed || depth > 0 || r.buf.Len() == 0 {
		return
	}
	r.writeln()
}

// cuddle closes a nested style block on the current line: the trailing
// newline is replaced with " }".
func (r *Renderer) cuddle() {
	if n := r.buf.Len(); n > 0 && r.buf.Bytes()[n-1] == '\n' {
		r.buf.Truncate(n - 1)
	}
	r.buf.WriteString(" }\n")
}

func (r *Renderer) trimSemi() {
	if n := r.buf.Len(); n > 0 && r.buf.Bytes()[n-1] == ';' {
		r.buf.Truncate(n - 1)
	}
}

// splitSelectors breaks a selector list on top level commas.
func splitSelectors(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinSelectors combines parent and child selector lists. A '&' in the
// child splices the parent selector in place; otherwise the parent is
// prepended as an ancestor. The result is the full cross product.
func joinSelectors(parents, own []string) []string {
	if len(parents) == 0 {
		out := make([]string, 0, len(own))
		for _, sel := range own {
			out = append(out, strings.TrimSpace(strings.ReplaceAll(sel, "&", "")))
		}
		return out
	}
	out := make([]string, 0, len(parents)*len(own))
	for _, parent := range parents {
		for _, sel := range own {
			if strings.Contains(sel, "&") {
				out = append(out, strings.ReplaceAll(sel, "&", parent))
			} else {
				out = append(out, parent+" "+sel)
			}
		}
	}
	return out
}

// JoinChain resolves a chain of nested selectors, root first, into the
// flat selector list it denotes in the output.
func JoinChain(chain []string) string {
	var cur []string
	for _, link := range chain {
		cur = joinSelectors(cur, splitSelectors(link))
	}
	return strings.Join(cur, ", ")
}

// flatText concatenates the resolved parts of an interp.
func flatText(in *ast.Interp) string {
	if in == nil {
		return ""
	}
	out := ""
	for _, part := range in.Parts {
		if lit, ok := part.(*ast.StringLit); ok {
			if lit.Quoted {
				out += `"` + lit.Value + `"`
			} else {
				out += lit.Value
			}
		}
	}
	return out
}

func valueText(value ast.Expression) string {
	if lit, ok := value.(*ast.StringLit); ok {
		if lit.Quoted {
			return `"` + lit.Value + `"`
		}
		return lit.Value
	}
	if value == nil {
		return ""
	}
	return value.TokenLiteral()
}
