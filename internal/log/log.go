// Package log provides the compiler's structured logger: slog behind a
// compact colorized text handler meant for terminals. Color is resolved
// once at construction from the configured mode, NO_COLOR and whether
// the writer is a terminal.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// New builds a logger writing human readable lines to w.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(newTextHandler(w, level, color))
}

// Default is the logger used before configuration is loaded: info level
// to stderr, color on auto.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelInfo, ColorEnabled("auto", os.Stderr))
}

// ParseLevel maps the command line level names onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// ColorEnabled resolves a color mode ("auto", "always", "never") against
// the writer. Auto enables color only for terminals and honors NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

type textHandler struct {
	level  slog.Level
	styles handlerStyles
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

type handlerStyles struct {
	time  lipgloss.Style
	key   lipgloss.Style
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
}

func newTextHandler(w io.Writer, level slog.Level, color bool) *textHandler {
	styles := handlerStyles{}
	if color {
		styles = handlerStyles{
			time:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			key:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			debug: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			info:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			err:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		}
	}
	return &textHandler{
		level:  level,
		styles: styles,
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(h.styles.time.Render(r.Time.Format("15:04:05")))
		sb.WriteString(" ")
	}
	sb.WriteString(h.levelStyle(r.Level).Render(r.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.qualified(a))
		return true
	})
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualified(a))
	}
	return next
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *textHandler) clone() *textHandler {
	return &textHandler{
		level:  h.level,
		styles: h.styles,
		mu:     h.mu,
		w:      h.w,
		attrs:  h.attrs[:len(h.attrs):len(h.attrs)],
		groups: h.groups[:len(h.groups):len(h.groups)],
	}
}

func (h *textHandler) qualified(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	a.Key = strings.Join(h.groups, ".") + "." + a.Key
	return a
}

// writeAttr expects the key to be group-qualified already.
func (h *textHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(h.styles.key.Render(a.Key + "="))
	sb.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		s := v.String()
		if strings.ContainsAny(s, " \t\"") {
			return strconv.Quote(s)
		}
		return s
	}
	return v.String()
}

func (h *textHandler) levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return h.styles.err
	case level >= slog.LevelWarn:
		return h.styles.warn
	case level >= slog.LevelInfo:
		return h.styles.info
	}
	return h.styles.debug
}
