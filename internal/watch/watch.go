// Package watch reruns work when source files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches files for changes and triggers debounced callbacks.
// Parent directories are watched rather than the files themselves so that
// editors replacing a file through a rename keep triggering. Callbacks for
// one path never overlap: a change seen while the callback runs queues a
// single rerun.
type Watcher struct {
	fsw       *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]int
	debounce  time.Duration
	timers    map[string]*time.Timer
	running   map[string]bool
	rerun     map[string]bool
	log       *zap.Logger
}

// New creates a watcher. A nil logger disables logging.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		fsw:       fsw,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]int),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		running:   make(map[string]bool),
		rerun:     make(map[string]bool),
		log:       log,
	}, nil
}

// Watch registers callback for every file in files. The callback receives
// the absolute path of the changed file.
func (w *Watcher) Watch(files []string, callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if _, ok := w.callbacks[absPath]; ok {
			w.callbacks[absPath] = callback
			continue
		}

		dir := filepath.Dir(absPath)
		if w.dirs[dir] == 0 {
			if err := w.fsw.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
		w.dirs[dir]++
		w.callbacks[absPath] = callback
		w.log.Debug("watching", zap.String("path", absPath))
	}

	return nil
}

// Run dispatches change events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.handleChange(filepath.Clean(event.Name))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// handleChange restarts the debounce timer of a watched file.
func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	callback, ok := w.callbacks[path]
	if !ok {
		return
	}

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.log.Debug("file changed", zap.String("path", path))
		w.fire(path, callback)
	})
}

// fire runs callback unless one is already running for path, in which case
// the running one repeats once it returns.
func (w *Watcher) fire(path string, callback func(string)) {
	w.mu.Lock()
	if w.running[path] {
		w.rerun[path] = true
		w.mu.Unlock()
		w.log.Debug("change queued behind running callback", zap.String("path", path))
		return
	}
	w.running[path] = true
	w.mu.Unlock()

	for {
		callback(path)

		w.mu.Lock()
		if !w.rerun[path] {
			delete(w.running, path)
			w.mu.Unlock()
			return
		}
		delete(w.rerun, path)
		w.mu.Unlock()
	}
}

// Close stops pending callbacks and the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
	return w.fsw.Close()
}

// RemoveAll stops watching every file.
func (w *Watcher) RemoveAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if err := w.fsw.Remove(dir); err != nil {
			return err
		}
	}
	for _, timer := range w.timers {
		timer.Stop()
	}

	w.callbacks = make(map[string]func(string))
	w.dirs = make(map[string]int)
	w.timers = make(map[string]*time.Timer)
	return nil
}
