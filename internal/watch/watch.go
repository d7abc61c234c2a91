// Package watch re-runs a callback whenever a single file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vytor/flashdeck/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context) error
}

// New watches path. The parent directory is watched rather than the file so
// that editors which save by rename keep being tracked.
func New(path string, debounce time.Duration, onChange func(ctx context.Context) error) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{path: path, debounce: debounce, onChange: onChange}
}

// Run blocks until ctx is cancelled. Callback errors are logged and do not
// stop the watcher.
func (w *FileWatcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}
	log := logger.FromContext(ctx).WithPrefix("watch").WithField("file", abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("event %s", event.Op)
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("fsnotify error: %v", err)
		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				log.Error("reload failed: %v", err)
				continue
			}
			log.Debug("reload complete")
		}
	}
}
