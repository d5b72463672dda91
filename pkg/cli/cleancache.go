package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/stratacss/strata/internal/cache"
)

// CleanCacheCmd removes old entries from the compile cache.
type CleanCacheCmd struct {
	MaxAge time.Duration `help:"Remove entries older than this." default:"720h"`
	All    bool          `help:"Remove every cached entry."`
}

func (c *CleanCacheCmd) Run(app *App) error {
	path, err := cacheDBPath()
	if err != nil {
		return fmt.Errorf("locating compile cache: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		app.Logger.Info("no compile cache to clean", "path", path)
		return nil
	}

	store, err := cache.Open(path)
	if err != nil {
		return fmt.Errorf("opening compile cache: %w", err)
	}
	defer store.Close()

	maxAge := c.MaxAge
	if c.All {
		maxAge = 0
	}
	removed, err := store.Prune(maxAge)
	if err != nil {
		return fmt.Errorf("pruning compile cache: %w", err)
	}
	app.Logger.Info("cache cleaned", "removed", removed, "path", path)
	return nil
}
