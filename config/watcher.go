package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/logger"
)

// DefaultDebounce collapses bursts of editor writes into one regeneration
const DefaultDebounce = 300 * time.Millisecond

// ChangeCallback is called once per debounced burst with the changed paths
type ChangeCallback func(changed []string) error

// Watcher watches the config file and the source tree for changes
type Watcher struct {
	configPath     string
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	pending        map[string]struct{}

	// runMu serialises callback invocations
	runMu sync.Mutex
}

// NewWatcher creates a watcher for configPath and every directory under root.
func NewWatcher(configPath, root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		configPath:     filepath.Clean(configPath),
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
		pending:        make(map[string]struct{}),
	}

	if configPath != "" {
		// Watch the directory so atomic-rename saves are seen
		if err := fw.Add(filepath.Dir(configPath)); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch config file %s", configPath)
		}
	}
	if root != "" {
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// SetDebounce overrides the debounce period
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnChange registers a callback
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// addTree watches dir and all its subdirectories, skipping build output
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && isIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		return nil
	})
}

func isIgnoredDir(name string) bool {
	switch name {
	case "bin", "obj", "node_modules":
		return true
	}
	return strings.HasPrefix(name, ".")
}

// Run processes events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.mu.Unlock()
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New directories join the watch set
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isIgnoredDir(info.Name()) {
			if err := w.addTree(event.Name); err != nil {
				logger.Warnw("Watcher failed to add directory", logger.FieldFile, event.Name, logger.FieldError, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	logger.Debugw("Watcher detected change", logger.FieldFile, event.Name, "op", event.Op.String())
	w.schedule(event.Name)
}

// relevant reports whether a change to path should trigger a regeneration
func (w *Watcher) relevant(path string) bool {
	if filepath.Clean(path) == w.configPath {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".cs")
}

// schedule debounces rapid file changes and triggers the callbacks
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	sort.Strings(changed)

	w.runMu.Lock()
	defer w.runMu.Unlock()
	for _, cb := range callbacks {
		if err := cb(changed); err != nil {
			// Continue calling other callbacks even if one fails
			logger.Warnw("Watcher callback error", logger.FieldError, err)
		}
	}
}

// ConfigChanged reports whether changed contains the watched config file
func (w *Watcher) ConfigChanged(changed []string) bool {
	for _, p := range changed {
		if filepath.Clean(p) == w.configPath {
			return true
		}
	}
	return false
}
