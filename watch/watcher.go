// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/logger"
)

// ChangeFunc runs after the debounce period; changed holds the files that
// triggered it, sorted and without duplicates.
type ChangeFunc func(changed []string) error

// Watcher debounces fsnotify events for a fixed set of files. Parent
// directories are watched so that editors replacing a file by rename are
// seen too.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	stopped bool

	// runMu serializes callbacks when a timer fires while one is running.
	runMu sync.Mutex
	runs  sync.WaitGroup
}

// New watches files. The files must exist.
func New(files []string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool),
		watcher:  fw,
		onChange: onChange,
		debounce: debounce,
		pending:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	return w, nil
}

// Run processes events until ctx is cancelled, then waits for a running
// callback to finish.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.runs.Wait()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// Close releases the fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule restarts the debounce timer and records name as changed.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	w.runs.Add(1)
	w.mu.Unlock()
	defer w.runs.Done()

	w.runMu.Lock()
	defer w.runMu.Unlock()

	sort.Strings(changed)
	if err := w.onChange(changed); err != nil {
		logger.Errorw("Regeneration failed", logger.FieldError, err)
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}
