package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the site when watched paths change. Events are debounced
// so editor save bursts trigger a single rebuild; rebuilds run sequentially
// on the watch goroutine, never concurrently.
type Watcher struct {
	paths    []string
	debounce time.Duration
	logger   interfaces.Logger
	onChange func(context.Context)
}

// NewWatcher builds a watcher over the given paths. Directories are watched
// recursively. A zero debounce selects the default.
func NewWatcher(paths []string, debounce time.Duration, logger interfaces.Logger, onChange func(context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{paths: paths, debounce: debounce, logger: logger, onChange: onChange}
}

// Run blocks until the context is cancelled, invoking the change callback
// after each debounced burst of filesystem events.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range w.paths {
		if err := addRecursive(watcher, path); err != nil {
			w.logger.Warn("cannot watch path", "path", path, "error", err)
		}
	}

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must join the watch set for recursive coverage.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-pending:
			timer = nil
			pending = nil
			w.onChange(ctx)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
