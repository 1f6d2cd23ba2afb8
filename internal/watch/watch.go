// Package watch re-runs a callback whenever the part files of a pool change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/StinkyLord/horizon-pool/internal/scanner"
)

// Watcher invokes OnChange once per burst of part file events.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   zerolog.Logger
	onChange func(context.Context) error

	// started is called once all initial watches are registered.
	started func()
}

// New creates a Watcher for the pool rooted at poolRoot.
func New(poolRoot string, debounce time.Duration, logger zerolog.Logger, onChange func(context.Context) error) *Watcher {
	return &Watcher{
		root:     poolRoot,
		debounce: debounce,
		logger:   logger,
		onChange: onChange,
	}
}

// Run watches until ctx is cancelled. Errors from the callback are logged and
// do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	partsDir := filepath.Join(w.root, scanner.PartsDir)
	if err := addTree(watcher, partsDir); err != nil {
		return fmt.Errorf("watch %s: %w", partsDir, err)
	}
	w.logger.Info().Str("path", partsDir).Msg("watching pool for changes")
	if w.started != nil {
		w.started()
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						w.logger.Error().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
					fire = time.After(w.debounce)
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("part file changed")
			fire = time.After(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("pool change handler failed")
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// addTree watches root and every directory below it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	dirs, err := directories(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}
	return nil
}

func directories(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
