package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 250 * time.Millisecond

// ConfigWatcher reloads the configuration when its file changes. Editors
// often replace files instead of writing them, so the directory is watched
// and events are filtered by name.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	reload   func(context.Context) error
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
}

// NewConfigWatcher watches path. reload is called once per burst of
// changes.
func NewConfigWatcher(path string, reload func(context.Context) error, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &ConfigWatcher{
		path:     path,
		debounce: defaultReloadDebounce,
		reload:   reload,
		logger:   logger,
	}
	w.SetFiles([]string{path})
	return w
}

// SetFiles replaces the set of files whose changes trigger a reload, for
// example after includes changed. Directories are fixed at Run.
func (w *ConfigWatcher) SetFiles(files []string) {
	set := make(map[string]struct{}, len(files)+1)
	set[filepath.Clean(w.path)] = struct{}{}
	for _, f := range files {
		set[filepath.Clean(f)] = struct{}{}
	}
	w.mu.Lock()
	w.files = set
	w.mu.Unlock()
}

func (w *ConfigWatcher) watches(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(name)]
	return ok
}

func (w *ConfigWatcher) dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for f := range w.files {
		dir := filepath.Dir(f)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}

// Run blocks until ctx is cancelled. A missing config directory is not an
// error; there is simply nothing to watch.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	added := 0
	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			w.logger.Warn("cannot watch config directory", "dir", dir, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		<-ctx.Done()
		return nil
	}
	w.logger.Info("watching config", "path", w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !w.watches(ev.Name) {
				continue
			}
			w.logger.Debug("config change detected", "op", ev.Op.String(), "file", ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := w.reload(ctx); err != nil {
				w.logger.Warn("config reload failed", "error", err)
			}
		}
	}
}
