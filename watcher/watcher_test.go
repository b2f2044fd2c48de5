package watcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// prefixChecker excludes every path under one of its prefixes.
type prefixChecker struct {
	excluded   []string
	ignoreFile string
}

func (c prefixChecker) IsExcluded(relPath string, isDir bool) bool {
	for _, prefix := range c.excluded {
		if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return true
		}
	}
	return false
}

func (c prefixChecker) IsIgnoreFile(relPath string) bool {
	return relPath == c.ignoreFile
}

func newTestWatcher(t *testing.T, root string, checker ExclusionChecker) *Watcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcherWithInterval(root, checker, testInterval, logger)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	go w.Start()
	t.Cleanup(func() { w.Close() })
	return w
}

// waitForPath collects batches until one contains path or the timeout expires.
func waitForPath(t *testing.T, w *Watcher, path string, timeout time.Duration) []DebouncedEvent {
	t.Helper()
	var seen []DebouncedEvent
	deadline := time.After(timeout)
	for {
		select {
		case batch := <-w.Events():
			seen = append(seen, batch...)
			for _, event := range batch {
				if event.Path == path {
					return seen
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s, saw %v", path, seen)
			return nil
		}
	}
}

func Test_Watcher_ReportsRelativePaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, root, prefixChecker{})

	if err := os.WriteFile(filepath.Join(root, "sub", "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForPath(t, w, "sub/a.txt", 5*time.Second)
}

func Test_Watcher_DropsExcludedPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, root, prefixChecker{excluded: []string{"build", "kushn_result.json"}})

	for _, name := range []string{"build/out.o", "kushn_result.json", "keep.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	seen := waitForPath(t, w, "keep.txt", 5*time.Second)
	for _, event := range seen {
		if event.Path == "build/out.o" || event.Path == "kushn_result.json" {
			t.Errorf("excluded path %s was reported", event.Path)
		}
	}
}

func Test_Watcher_ForwardsIgnoreFileEvenWhenExcluded(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, prefixChecker{
		excluded:   []string{".kushnignore"},
		ignoreFile: ".kushnignore",
	})

	if err := os.WriteFile(filepath.Join(root, ".kushnignore"), []byte("build\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForPath(t, w, ".kushnignore", 5*time.Second)
}

func Test_Watcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, prefixChecker{})

	newDir := filepath.Join(root, "fresh")
	if err := os.Mkdir(newDir, 0o755); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, w, "fresh", 5*time.Second)

	if err := os.WriteFile(filepath.Join(newDir, "b.txt"), []byte("world"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, w, "fresh/b.txt", 5*time.Second)
}

func Test_NewWatcher_MissingRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), prefixChecker{}, logger)
	if err == nil {
		t.Error("expected an error for a missing root")
	}
}
