package cli

import "github.com/stratacss/strata/internal/diagnostics"

// CheckCmd validates source files without writing any output.
type CheckCmd struct {
	Paths []string `arg:"" optional:"" help:"Source files or directories to check."`
	Style string   `help:"Output style to validate against: nested or compressed."`
}

func (c *CheckCmd) Run(app *App) error {
	style, err := app.resolveStyle(c.Style)
	if err != nil {
		return err
	}
	files, err := app.collectSources(c.Paths)
	if err != nil {
		return err
	}

	for _, file := range files {
		res, err := app.compileFile(file, style, nil)
		if err != nil {
			return err
		}
		if len(res.Diagnostics) > 0 {
			diagnostics.Fprint(app.Stderr, res.Diagnostics, res.Source, app.Color)
			app.exitCode = 1
			continue
		}
		app.Logger.Info("ok", "file", file, "elapsed", res.Elapsed)
	}
	return nil
}
