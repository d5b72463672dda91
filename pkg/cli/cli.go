// Package cli implements the strata command line interface.
//
// The interface is built around three commands. "build" compiles source
// files to CSS, "check" validates them without writing output, and
// "clean-cache" prunes the on-disk compile cache. Exit codes follow the
// usual convention: 0 on success, 1 when compilation reported
// diagnostics, 2 for usage, configuration or environment problems.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/stratacss/strata/internal/config"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/log"
	"github.com/stratacss/strata/internal/render"
	"github.com/stratacss/strata/internal/token"
)

// CLI declares the flag and command grammar parsed by kong.
type CLI struct {
	Config   string           `help:"Project file path (default: nearest strata.yaml)." type:"path"`
	LogLevel string           `help:"Log verbosity: debug, info, warn or error." default:"info"`
	Color    string           `help:"Color output: auto, always or never."`
	Profile  bool             `help:"Write a CPU profile to the current directory."`
	Version  kong.VersionFlag `help:"Print version and exit." short:"V"`

	Build      BuildCmd      `cmd:"" default:"withargs" help:"Compile source files to CSS."`
	Check      CheckCmd      `cmd:"" help:"Validate source files without writing output."`
	CleanCache CleanCacheCmd `cmd:"" help:"Remove old entries from the compile cache."`
}

// App carries the resolved environment shared by every command.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    *slog.Logger
	Color     bool
	Stdout    io.Writer
	Stderr    io.Writer

	exitCode int
}

// Main parses args, runs the selected command and returns the process
// exit code.
func Main(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("STRATA_DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug in strata. Please report it.")
			code = 2
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("strata"),
		kong.Description("A small stylesheet compiler with variables, nesting and mixins."),
		kong.UsageOnError(),
		kong.Vars{"version": "strata " + config.Version},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	ktx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	app, err := newApp(&cli, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	if cli.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if err := ktx.Run(app); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	return app.exitCode
}

func newApp(cli *CLI, stdout, stderr io.Writer) (*App, error) {
	cfgPath := cli.Config
	if cfgPath == "" {
		found, err := config.Discover(".")
		if err != nil {
			return nil, err
		}
		cfgPath = found
	}

	cfg := config.Default()
	configDir := ""
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, diagnostics.NewError(diagnostics.ErrC301, token.Token{}, "%s", err)
		}
		cfg = loaded
		configDir = filepath.Dir(cfgPath)
	}

	colorMode := cli.Color
	if colorMode == "" {
		colorMode = cfg.Color
	}
	switch colorMode {
	case "", "auto", "always", "never":
	default:
		return nil, fmt.Errorf("unsupported color mode %q (want auto, always or never)", colorMode)
	}
	color := log.ColorEnabled(colorMode, stderr)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    log.New(stderr, level, color),
		Color:     color,
		Stdout:    stdout,
		Stderr:    stderr,
	}, nil
}

// resolveStyle picks the output style from the flag, falling back to the
// project file and then the built-in default.
func (app *App) resolveStyle(flag string) (string, error) {
	style := flag
	if style == "" {
		style = app.Config.Style
	}
	if style == "" {
		style = config.DefaultStyle
	}
	switch style {
	case render.StyleNested, render.StyleCompressed:
		return style, nil
	}
	return "", fmt.Errorf("unsupported style %q (want nested or compressed)", style)
}
