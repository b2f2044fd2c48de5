package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/lexandro/kushn/digest"
	"github.com/lexandro/kushn/ignore"
	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/scanner"
)

// workspace ties one scan root to its ignore rules and manifest.
type workspace struct {
	rootDir   string
	fs        billy.Filesystem
	matcher   *ignore.Matcher
	store     *manifest.Store
	algorithm digest.Algorithm

	// selfRecord is the manifest path written by --include-self.
	selfRecord string

	opts   *options
	logger *slog.Logger
}

func openWorkspace(opts *options) (*workspace, error) {
	rootDir, err := resolveRoot(opts.root)
	if err != nil {
		return nil, err
	}

	algorithm, err := digest.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return nil, err
	}

	rootFS := osfs.New(rootDir)
	store, selfPaths := manifestStore(rootDir, rootFS, opts.name)

	// Inside the root the record uses the same cleaned relative path as every other entry.
	selfRecord := filepath.ToSlash(filepath.Clean(opts.name))
	if len(selfPaths) > 0 {
		selfRecord = store.Name()
	}

	matcher, err := ignore.NewMatcher(rootFS, ignore.MatcherOptions{
		IgnoreFile:      opts.ignoreFile,
		UseGitIgnore:    opts.gitignore,
		ExcludePatterns: opts.excludes,
		ExcludePaths:    selfPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("loading ignore rules: %w", err)
	}

	opts.logger.Debug("workspace ready",
		"root", rootDir,
		"manifest", opts.name,
		"algorithm", algorithm,
		"rules", matcher.Rules().Len(),
	)

	return &workspace{
		rootDir:    rootDir,
		fs:         rootFS,
		matcher:    matcher,
		store:      store,
		algorithm:  algorithm,
		selfRecord: selfRecord,
		opts:       opts,
		logger:     opts.logger,
	}, nil
}

// resolveRoot returns the absolute scan root, defaulting to the working directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	return abs, nil
}

// manifestStore places the manifest relative to the root unless name is absolute.
// When the manifest lands inside the root, its path and temp path are returned
// so the scan never hashes its own output.
func manifestStore(rootDir string, rootFS billy.Filesystem, name string) (*manifest.Store, []string) {
	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(rootDir, target)
	}

	rel, err := filepath.Rel(rootDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return manifest.NewStore(osfs.New(filepath.Dir(target)), filepath.Base(target)), nil
	}

	store := manifest.NewStore(rootFS, rel)
	return store, []string{store.Name(), store.TempName()}
}

func (w *workspace) scan(ctx context.Context) (*scanner.Result, error) {
	s := scanner.New(w.fs, w.matcher, scanner.Options{
		Algorithm:      w.algorithm,
		Workers:        w.opts.workers,
		FollowSymlinks: w.opts.followSymlinks,
		Logger:         w.logger,
	})

	return s.Scan(ctx)
}

// rescan re-reads the ignore files before scanning, for long-running commands.
func (w *workspace) rescan(ctx context.Context) (*scanner.Result, error) {
	if err := w.matcher.Reload(); err != nil {
		return nil, fmt.Errorf("reloading ignore rules: %w", err)
	}
	return w.scan(ctx)
}

// save writes m. With --include-self the written file is hashed, its record
// appended, and the manifest written again.
func (w *workspace) save(m *manifest.Manifest) error {
	if err := w.store.Save(m); err != nil {
		return err
	}
	if !w.opts.includeSelf {
		return nil
	}

	selfHash, err := w.store.Hash(w.algorithm)
	if err != nil {
		return err
	}
	m.Remove(w.selfRecord)
	m.Add(manifest.Record{Path: w.selfRecord, Hash: selfHash})
	return w.store.Save(m)
}

// baseline loads the saved manifest without the entry --include-self adds.
func (w *workspace) baseline() (*manifest.Manifest, error) {
	stored, err := w.store.Load()
	if err != nil {
		return nil, err
	}
	stored.Remove(w.selfRecord)
	return stored, nil
}
