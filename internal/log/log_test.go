package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false)

	logger.Info("compiled", "file", "main.strata", "ms", 12)

	line := buf.String()
	if !strings.Contains(line, "INFO compiled") {
		t.Errorf("line missing level and message: %q", line)
	}
	if !strings.Contains(line, "file=main.strata") {
		t.Errorf("line missing string attr: %q", line)
	}
	if !strings.Contains(line, "ms=12") {
		t.Errorf("line missing int attr: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("line not newline terminated: %q", line)
	}
}

func TestHandlerQuotesSpacedStrings(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false)

	logger.Info("msg", "err", "no such file")

	if !strings.Contains(buf.String(), `err="no such file"`) {
		t.Errorf("spaced value not quoted: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, false)

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("suppressed levels leaked: %q", out)
	}
	if !strings.Contains(out, "WARN loud") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestWithAttrsCarriesForward(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false).With("file", "a.strata")

	logger.Info("done")

	if !strings.Contains(buf.String(), "file=a.strata") {
		t.Errorf("preset attr missing: %q", buf.String())
	}
}

func TestWithGroupQualifiesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false).WithGroup("cache")

	logger.Info("hit", "path", "a.strata")

	if !strings.Contains(buf.String(), "cache.path=a.strata") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for i, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("tests[%d]: expected error for %q", i, tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("tests[%d]: unexpected error: %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("tests[%d]: ParseLevel(%q)=%v, want %v", i, tt.input, got, tt.want)
		}
	}
}

func TestColorEnabledModes(t *testing.T) {
	var buf bytes.Buffer
	if !ColorEnabled("always", &buf) {
		t.Errorf("always mode should force color on")
	}
	if ColorEnabled("never", &buf) {
		t.Errorf("never mode should force color off")
	}
	// A plain buffer is not a terminal.
	if ColorEnabled("auto", &buf) {
		t.Errorf("auto mode should disable color for non terminals")
	}
}

func TestColorEnabledHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if ColorEnabled("auto", &buf) {
		t.Errorf("NO_COLOR should disable auto color")
	}
}
