package provider

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of filesystem
// events to settle before refreshing. Installers touch a bundle many times.
const DefaultDebounce = 500 * time.Millisecond

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher refreshes a Catalog when application directories change.
// Only the top level of each directory is watched: bundles appearing,
// disappearing or being renamed.
type Watcher struct {
	fw       *fsnotify.Watcher
	catalog  *Catalog
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher creates a watcher for dirs that refreshes catalog.
func NewWatcher(catalog *Catalog, dirs []string, opts WatcherOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Watcher{
		fw:       fw,
		catalog:  catalog,
		dirs:     dirs,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Directories that cannot be watched are skipped with
// a warning. Refreshes run with ctx until Stop is called or ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	watched := 0
	for _, dir := range w.dirs {
		if err := w.fw.Add(dir); err != nil {
			w.logger.Warn("cannot watch application directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return ErrNoSources
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			w.logger.Debug("application directory changed", "path", event.Name, "op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			_ = w.Stop()
			return

		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if _, err := w.catalog.Refresh(ctx); err != nil {
			w.logger.Warn("refresh after change failed", "error", err)
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

func relevantEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(filepath.Base(event.Name), bundleSuffix) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Write)
}
