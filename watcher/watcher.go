package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the quiet period after which a batch of changes is emitted.
const DefaultInterval = 300 * time.Millisecond

// ExclusionChecker decides which root-relative paths the watcher reports.
// Paths use forward slashes.
type ExclusionChecker interface {
	IsExcluded(relPath string, isDir bool) bool
	IsIgnoreFile(relPath string) bool
}

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	checker   ExclusionChecker
	rootDir   string
	logger    *slog.Logger
}

// NewWatcher creates a recursive file watcher on the given root directory.
// Every directory the checker does not exclude is registered; excluded
// subtrees are never descended into.
func NewWatcher(rootDir string, checker ExclusionChecker, logger *slog.Logger) (*Watcher, error) {
	return NewWatcherWithInterval(rootDir, checker, DefaultInterval, logger)
}

// NewWatcherWithInterval is NewWatcher with a custom debounce interval.
func NewWatcherWithInterval(rootDir string, checker ExclusionChecker, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(interval),
		checker:   checker,
		rootDir:   rootDir,
		logger:    logger,
	}

	if err := w.addTree(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(path); ok && rel != "" && w.checker.IsExcluded(rel, true) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
}

// Events returns the channel that receives debounced batches.
func (w *Watcher) Events() <-chan []DebouncedEvent {
	return w.debouncer.Output()
}

// Start begins listening for file system events. Call this in a goroutine.
// It runs until the watcher is closed.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, ok := w.relative(event.Name)
	if !ok || rel == "" {
		return
	}

	if w.checker.IsIgnoreFile(rel) {
		if op, ok := toOp(event); ok {
			w.debouncer.Add(rel, op)
		}
		return
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if w.checker.IsExcluded(rel, true) {
				return
			}
			// Files may land in the new directory before it is registered.
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", rel, "error", err)
			}
			w.debouncer.Add(rel, OpCreate)
			return
		}
	}

	// Removed paths cannot be stat'ed, so exclusion is checked both ways.
	if w.checker.IsExcluded(rel, false) || w.checker.IsExcluded(rel, true) {
		return
	}

	if op, ok := toOp(event); ok {
		w.debouncer.Add(rel, op)
	}
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return filepath.ToSlash(rel), true
}

func toOp(event fsnotify.Event) (EventOp, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return OpCreate, true
	case event.Has(fsnotify.Write):
		return OpWrite, true
	case event.Has(fsnotify.Remove):
		return OpRemove, true
	case event.Has(fsnotify.Rename):
		return OpRename, true
	default:
		return 0, false
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
