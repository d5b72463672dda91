package diagnostics

import (
	"strings"
	"testing"

	"github.com/stratacss/strata/internal/token"
)

func TestErrorFormat(t *testing.T) {
	d := NewError(ErrE105, token.Token{Line: 4, Column: 7}, "mixin %s is missing parameter $%s", "corner", "radius")
	d.File = "main.strata"

	got := d.Error()
	want := "E105: mixin corner is missing parameter $radius (main.strata:4:7)"
	if got != want {
		t.Errorf("Error()=%q, want=%q", got, want)
	}
}

func TestWithFrameOrder(t *testing.T) {
	d := NewError(ErrE105, token.Token{Line: 9}, "mixin inner is missing parameter $a")
	d.WithFrame("inner", "a.strata", 9).WithFrame("middle", "a.strata", 5).WithFrame("outer", "a.strata", 2)

	if len(d.Backtrace) != 3 {
		t.Fatalf("backtrace length=%d, want=3", len(d.Backtrace))
	}
	names := []string{d.Backtrace[0].Mixin, d.Backtrace[1].Mixin, d.Backtrace[2].Mixin}
	want := []string{"inner", "middle", "outer"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("frame[%d]=%q, want=%q (innermost first)", i, names[i], want[i])
		}
	}
}

func TestModifyTrace(t *testing.T) {
	tests := []struct {
		name      string
		setup     func() *Diagnostic
		wantFile  string
		wantMixin string
	}{
		{
			name: "fills primary location when no frames",
			setup: func() *Diagnostic {
				return NewError(ErrS201, token.Token{}, "properties are only allowed within rules")
			},
			wantFile: "main.strata",
		},
		{
			name: "fills unset fields of last frame",
			setup: func() *Diagnostic {
				d := NewError(ErrS201, token.Token{Line: 3}, "properties are only allowed within rules")
				d.Backtrace = append(d.Backtrace, Frame{Line: 3})
				return d
			},
			wantFile:  "main.strata",
			wantMixin: "bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.setup()
			d.ModifyTrace("bad", "main.strata", 7)
			if len(d.Backtrace) == 0 {
				if d.File != tt.wantFile {
					t.Errorf("primary file=%q, want=%q", d.File, tt.wantFile)
				}
				return
			}
			last := d.Backtrace[len(d.Backtrace)-1]
			if last.File != tt.wantFile {
				t.Errorf("frame file=%q, want=%q", last.File, tt.wantFile)
			}
			if last.Mixin != tt.wantMixin {
				t.Errorf("frame mixin=%q, want=%q", last.Mixin, tt.wantMixin)
			}
			if last.Line != 3 {
				t.Errorf("frame line=%d, want=3 (set fields are not overwritten)", last.Line)
			}
		})
	}
}

func TestRenderSnippet(t *testing.T) {
	source := ".button {\n  @include corner();\n}\n"
	d := NewError(ErrE102, token.Token{Line: 2, Column: 3}, "undefined mixin corner")
	d.File = "button.strata"
	d.WithFrame("corner", "button.strata", 2)

	out := Render(d, source, false)

	for _, want := range []string{
		"error[E102]: undefined mixin corner",
		"--> button.strata:2:3",
		"2 |   @include corner();",
		"^",
		"= in mixin corner (button.strata:2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderWithoutSource(t *testing.T) {
	d := NewError(ErrC301, token.Token{}, "cannot parse strata.yaml")
	out := Render(d, "", false)
	if strings.Contains(out, "|") {
		t.Errorf("expected no snippet gutter without source:\n%s", out)
	}
}

func TestDidYouMean(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{"close match", "cornr", []string{"corner", "shadow"}, " (did you mean corner?)"},
		{"no candidates", "cornr", nil, ""},
		{"identical", "corner", []string{"corner"}, ""},
		{"nothing similar", "zzz", []string{"corner", "shadow"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DidYouMean(tt.input, "", tt.candidates)
			if got != tt.want {
				t.Errorf("DidYouMean(%q)=%q, want=%q", tt.input, got, tt.want)
			}
		})
	}
}
