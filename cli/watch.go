package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/watcher"
)

// watchSettings tunes the watch loop.
type watchSettings struct {
	debounce     time.Duration
	syncInterval time.Duration // periodic full rescan, 0 disables
}

func newWatchCmd(opts *options) *cobra.Command {
	var settings watchSettings

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the manifest up to date while files change",
		Long: `Writes the manifest, then watches the root and rewrites it after every
batch of changes. Edits to the ignore file take effect immediately.
A periodic full rescan catches changes the file system never reported.

Example output:

  $ kushn watch
  File hashes generated and saved to kushn_result.json.
  Watching /path/to/project. Press Ctrl+C to stop.
  [14:32:15] 2 changes, saved to kushn_result.json
    ~ src/main.go
    + src/util.go`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts, settings)
		},
	}
	cmd.Flags().DurationVar(&settings.debounce, "debounce", watcher.DefaultInterval,
		"Quiet period before a batch of changes is processed")
	cmd.Flags().DurationVar(&settings.syncInterval, "sync-interval", 5*time.Minute,
		"Interval between full rescans (0 disables)")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *options, settings watchSettings) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := ws.scan(ctx)
	if err != nil {
		return err
	}
	if err := ws.save(result.Manifest); err != nil {
		return err
	}
	result.Manifest.Remove(ws.selfRecord)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File hashes generated and saved to %s.\n", opts.name)

	return ws.watch(ctx, result.Manifest, out, settings)
}

// watch rescans after every debounced batch, and every sync interval, and saves
// the manifest when it changed. It returns when ctx is done.
func (w *workspace) watch(ctx context.Context, previous *manifest.Manifest, out io.Writer, settings watchSettings) error {
	fileWatcher, err := watcher.NewWatcherWithInterval(w.rootDir, w.matcher, settings.debounce, w.logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = fileWatcher.Close() }()
	go fileWatcher.Start()

	var syncTicks <-chan time.Time
	if settings.syncInterval > 0 {
		ticker := time.NewTicker(settings.syncInterval)
		defer ticker.Stop()
		syncTicks = ticker.C
		w.logger.Info("periodic sync started", "interval", settings.syncInterval)
	}

	fmt.Fprintf(out, "Watching %s. Press Ctrl+C to stop.\n", w.rootDir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-syncTicks:
			current, changes, err := w.refresh(ctx, previous)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("sync rescan failed", "error", err)
				continue
			}
			previous = current
			if changes.IsEmpty() {
				w.logger.Debug("sync verification complete, manifest is in sync")
				continue
			}
			w.logger.Info("sync verification found missed changes", "changes", changes.TotalChanges())
			printChanges(out, changes, w.opts.name)

		case batch, ok := <-fileWatcher.Events():
			if !ok {
				return nil
			}
			w.logger.Debug("change batch", "events", len(batch))

			rulesChanged := w.touchesIgnoreFile(batch)
			if rulesChanged {
				if err := w.matcher.Reload(); err != nil {
					w.logger.Warn("keeping previous ignore rules", "error", err)
					rulesChanged = false
				}
			}

			current, changes, err := w.refresh(ctx, previous)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("rescan failed", "error", err)
				continue
			}
			previous = current
			if !changes.IsEmpty() {
				printChanges(out, changes, w.opts.name)
			}

			if rulesChanged {
				// Directories the old rules excluded were never registered.
				_ = fileWatcher.Close()
				fileWatcher, err = watcher.NewWatcherWithInterval(w.rootDir, w.matcher, settings.debounce, w.logger)
				if err != nil {
					return fmt.Errorf("restarting watcher: %w", err)
				}
				go fileWatcher.Start()
			}
		}
	}
}

// refresh rescans and saves the manifest if anything differs from previous.
func (w *workspace) refresh(ctx context.Context, previous *manifest.Manifest) (*manifest.Manifest, *manifest.ChangeSet, error) {
	result, err := w.scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	changes := manifest.Diff(previous, result.Manifest)
	if changes.IsEmpty() {
		return previous, changes, nil
	}

	if err := w.save(result.Manifest); err != nil {
		return nil, nil, err
	}
	result.Manifest.Remove(w.selfRecord)

	w.logger.Info("manifest updated",
		"added", len(changes.Added),
		"modified", len(changes.Modified),
		"deleted", len(changes.Deleted),
	)
	return result.Manifest, changes, nil
}

func (w *workspace) touchesIgnoreFile(batch []watcher.DebouncedEvent) bool {
	for _, event := range batch {
		if w.matcher.IsIgnoreFile(event.Path) {
			return true
		}
	}
	return false
}

func printChanges(out io.Writer, changes *manifest.ChangeSet, name string) {
	fmt.Fprintf(out, "[%s] %d changes, saved to %s\n", time.Now().Format("15:04:05"), changes.TotalChanges(), name)
	for _, path := range changes.Added {
		fmt.Fprintf(out, "  + %s\n", path)
	}
	for _, path := range changes.Modified {
		fmt.Fprintf(out, "  ~ %s\n", path)
	}
	for _, path := range changes.Deleted {
		fmt.Fprintf(out, "  - %s\n", path)
	}
}
