package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"quote-service/internal/metrics"
	"quote-service/internal/quote/model"
)

// editors and spreadsheet tools write in bursts; reload once they settle
var watchDebounce = 500 * time.Millisecond

// LoadFile opens and loads a catalog spreadsheet from disk.
func LoadFile(path string, headerRow int, m Mapping) ([]model.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f, path, headerRow, m)
}

// Watch reloads path into store whenever the file changes, until ctx is done.
// A reload that fails keeps the previous snapshot.
func Watch(ctx context.Context, path string, headerRow int, m Mapping, store *Store, logger zerolog.Logger) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	defer fsw.Close()

	path = filepath.Clean(path)
	// watch the directory: saving often replaces the file
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("file", path).Msg("catalog watcher")
		case <-timer.C:
			items, err := LoadFile(path, headerRow, m)
			if err != nil {
				metrics.IncCatalogLoad("error")
				logger.Error().Err(err).Str("file", path).Msg("catalog reload failed, keeping previous")
				continue
			}
			c := store.Replace(items)
			metrics.IncCatalogLoad("ok")
			logger.Info().Str("file", path).Int("items", c.Len()).Msg("catalog reloaded")
		}
	}
}
