// Package watcher reports changed Markdown files, debounced, so a burst of
// editor writes triggers one re-check.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	// Dirs are the directories to watch. fsnotify is not recursive, so
	// every directory holding a watched file must be listed.
	Dirs []string

	// Extensions are the lowercase file extensions, with leading dot, that
	// are reported. Empty means every file.
	Extensions []string

	// Debounce is the quiet period before a batch is delivered.
	Debounce time.Duration
}

// DefaultConfig returns a Config watching dirs for Markdown files.
func DefaultConfig(dirs []string) Config {
	return Config{
		Dirs:       dirs,
		Extensions: []string{".md", ".markdown"},
		Debounce:   DefaultDebounce,
	}
}

// Watcher monitors directories and delivers batches of changed paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	cfg       Config
	changes   chan []string
	errs      chan error
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher. Relative directories are resolved against the
// working directory. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	dirs := make([]string, 0, len(cfg.Dirs))
	for _, dir := range cfg.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving directory %s: %w", dir, err)
		}
		dirs = append(dirs, abs)
	}
	cfg.Dirs = dirs

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		cfg:       cfg,
		changes:   make(chan []string, 1),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives sorted, deduplicated
// absolute paths of files that were written, created, renamed or removed.
// It is closed after Stop. If a directory cannot be watched the watcher is
// stopped and the error returned.
func (w *Watcher) Start() (<-chan []string, error) {
	for _, dir := range w.cfg.Dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = w.Stop()
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()

	return w.changes, nil
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	list := w.fsWatcher.WatchList()
	slices.Sort(list)
	return list
}

// Errors delivers fsnotify errors. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.changes)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}

			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}

			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			slices.Sort(batch)
			clear(pending)

			select {
			case w.changes <- batch:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevant reports whether event concerns a watched kind of file.
// Chmod-only events are ignored; editors emit them on save without
// changing content.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	if len(w.cfg.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return slices.Contains(w.cfg.Extensions, ext)
}

// ErrNoDirs is returned by Dirs when no directory can be watched.
var ErrNoDirs = errors.New("nothing to watch")

// Dirs returns the sorted, deduplicated parent directories of files.
func Dirs(files []string) ([]string, error) {
	seen := make(map[string]struct{}, len(files))
	dirs := make([]string, 0, len(files))
	for _, file := range files {
		dir := filepath.Dir(file)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		return nil, ErrNoDirs
	}
	slices.Sort(dirs)
	return dirs, nil
}
