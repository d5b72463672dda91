package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stratacss/strata/internal/cache"
	"github.com/stratacss/strata/internal/config"
	"github.com/stratacss/strata/internal/diagnostics"
	"github.com/stratacss/strata/internal/evaluator"
	"github.com/stratacss/strata/internal/lexer"
	"github.com/stratacss/strata/internal/lowering"
	"github.com/stratacss/strata/internal/parser"
	"github.com/stratacss/strata/internal/pipeline"
	"github.com/stratacss/strata/internal/render"
)

// BuildCmd compiles source files to CSS.
type BuildCmd struct {
	Paths   []string `arg:"" optional:"" help:"Source files or directories to compile."`
	Style   string   `help:"Output style: nested or compressed."`
	Out     string   `help:"Directory to write CSS files into." type:"path"`
	Stdout  bool     `help:"Print CSS to standard output instead of writing files."`
	NoCache bool     `help:"Skip the compile cache for this run."`
}

func (b *BuildCmd) Run(app *App) error {
	style, err := app.resolveStyle(b.Style)
	if err != nil {
		return err
	}
	files, err := app.collectSources(b.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found")
	}

	store := app.openCache(b.NoCache)
	if store != nil {
		defer store.Close()
	}

	for _, file := range files {
		res, err := app.compileFile(file, style, store)
		if err != nil {
			return err
		}
		if len(res.Diagnostics) > 0 {
			diagnostics.Fprint(app.Stderr, res.Diagnostics, res.Source, app.Color)
			app.exitCode = 1
			continue
		}

		if b.Stdout {
			fmt.Fprint(app.Stdout, res.CSS)
			app.Logger.Info("compiled", "file", file, "cached", res.Cached, "elapsed", res.Elapsed)
			continue
		}

		out := outputPath(file, b.Out)
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(out, []byte(res.CSS), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		app.Logger.Info("compiled", "file", file, "out", out, "cached", res.Cached, "elapsed", res.Elapsed)
	}
	return nil
}

type compileResult struct {
	CSS         string
	Source      string
	Diagnostics []*diagnostics.Diagnostic
	Cached      bool
	Elapsed     time.Duration
}

// compileFile runs one source file through the full pipeline, consulting
// the cache on the way in and feeding it on the way out. Cache failures
// degrade to uncached compiles.
func (app *App) compileFile(path, style string, store *cache.Store) (compileResult, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return compileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(data)
	digest := cache.Digest(source)

	if store != nil {
		entry, ok, err := store.Get(path, digest, style)
		if err != nil {
			app.Logger.Warn("cache lookup failed", "file", path, "error", err)
		} else if ok {
			return compileResult{CSS: entry.CSS, Source: source, Cached: true, Elapsed: time.Since(start)}, nil
		}
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	ctx.Style = style
	pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&evaluator.EvaluatorProcessor{},
		&lowering.LoweringProcessor{},
		&render.RenderProcessor{},
	).Run(ctx)

	if ctx.Failed() {
		return compileResult{Source: source, Diagnostics: ctx.Diagnostics, Elapsed: time.Since(start)}, nil
	}

	if store != nil {
		err := store.Put(cache.Entry{
			Path:          path,
			Digest:        digest,
			Style:         style,
			CSS:           ctx.CSS,
			CompilationID: ctx.CompilationID.String(),
		})
		if err != nil {
			app.Logger.Warn("cache write failed", "file", path, "error", err)
		}
	}
	return compileResult{CSS: ctx.CSS, Source: source, Elapsed: time.Since(start)}, nil
}

// cacheDBPath returns the on-disk location of the compile cache.
// STRATA_CACHE_DIR overrides the per-user cache directory.
func cacheDBPath() (string, error) {
	dir := os.Getenv("STRATA_CACHE_DIR")
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "strata")
	}
	return filepath.Join(dir, config.CacheFileName), nil
}

// openCache opens the compile cache, or returns nil when caching is
// disabled or the store cannot be opened.
func (app *App) openCache(noCache bool) *cache.Store {
	if noCache || !app.Config.CacheEnabled() {
		return nil
	}
	path, err := cacheDBPath()
	if err != nil {
		app.Logger.Warn("compile cache unavailable", "error", err)
		return nil
	}
	store, err := cache.Open(path)
	if err != nil {
		app.Logger.Warn("compile cache unavailable", "error", err)
		return nil
	}
	return store
}
