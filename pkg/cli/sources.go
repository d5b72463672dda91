package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stratacss/strata/internal/config"
)

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// collectSources resolves the positional arguments to a sorted list of
// source files. Directories are walked recursively; hidden directories
// are skipped. With no arguments the current directory plus the project
// file's include paths are searched.
func (app *App) collectSources(args []string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
		for _, p := range app.Config.IncludePaths {
			if !filepath.IsAbs(p) && app.ConfigDir != "" {
				p = filepath.Join(app.ConfigDir, p)
			}
			roots = append(roots, p)
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			if !isSourceFile(root) {
				return nil, fmt.Errorf("%s is not a stylesheet source file", root)
			}
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// outputPath maps a source file to its CSS destination. With outDir set
// the file lands there under its base name, otherwise next to the source.
func outputPath(source, outDir string) string {
	css := strings.TrimSuffix(source, filepath.Ext(source)) + ".css"
	if outDir == "" {
		return css
	}
	return filepath.Join(outDir, filepath.Base(css))
}
