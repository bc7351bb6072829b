// Package watcher re-ingests catalog manifests when they change on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Editors produce bursts of writes for one save, so per-file events are
// debounced before re-ingesting.
const defaultDebounce = 400 * time.Millisecond

// Watcher watches one manifest directory and calls onChange with the path
// of every created or rewritten .json file, debounced per file.
type Watcher struct {
	dir      string
	onChange func(path string)
	debounce time.Duration
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timers   map[string]*time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// New creates a watcher over dir.
func New(dir string, onChange func(path string), logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
}

// Start registers the directory (creating it if missing) and handles events
// on a background goroutine until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.mu.Unlock()
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = fsw
	w.started = true
	w.mu.Unlock()

	w.logger.Info("watching manifest directory", zap.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("manifest watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		w.scheduleChange(ev.Name)
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.cancelTimer(ev.Name)
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.logger.Debug("manifest changed", zap.String("path", path))
		if w.onChange != nil {
			w.onChange(path)
		}
	})
}

func (w *Watcher) cancelTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// Stop stops watching and releases resources. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.done) })
}
