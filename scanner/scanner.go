// Package scanner walks a directory tree and hashes every file the ignore rules let through.
package scanner

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/lexandro/kushn/digest"
	"github.com/lexandro/kushn/manifest"
)

const defaultWorkerCount = 8

// Excluder decides whether an entry is left out of the manifest.
// relativePath uses forward slashes and is relative to the scan root.
type Excluder interface {
	IsExcluded(relativePath string, isDir bool) bool
}

// Options configures a Scanner.
type Options struct {
	Algorithm      digest.Algorithm // defaults to SHA256
	Workers        int              // hashing goroutines, defaults to 8
	FollowSymlinks bool             // descend into symlinked directories
	Logger         *slog.Logger
}

// Scanner produces a manifest for the tree rooted at its filesystem.
// Excluded directories are never listed, excluded files are never opened.
type Scanner struct {
	fsys           billy.Filesystem
	excluder       Excluder
	algorithm      digest.Algorithm
	workers        int
	followSymlinks bool
	logger         *slog.Logger
}

// Result is the outcome of one scan.
type Result struct {
	Manifest *manifest.Manifest
	Skipped  []*EntryUnreadableError // sorted by path
	Files    int
	Bytes    int64
	Duration time.Duration
}

// New creates a scanner over fsys. The root of fsys is the scan root.
func New(fsys billy.Filesystem, excluder Excluder, options Options) *Scanner {
	if excluder == nil {
		excluder = noExclusions{}
	}
	if options.Algorithm == "" {
		options.Algorithm = digest.SHA256
	}
	if options.Workers <= 0 {
		options.Workers = defaultWorkerCount
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	return &Scanner{
		fsys:           fsys,
		excluder:       excluder,
		algorithm:      options.Algorithm,
		workers:        options.Workers,
		followSymlinks: options.FollowSymlinks,
		logger:         options.Logger,
	}
}

type noExclusions struct{}

func (noExclusions) IsExcluded(string, bool) bool { return false }

type hashJob struct {
	relPath string
	size    int64
}

// collector accumulates worker and walker output.
type collector struct {
	mu     sync.Mutex
	result *Result
}

func (c *collector) add(record manifest.Record, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Manifest.Add(record)
	c.result.Files++
	c.result.Bytes += size
}

func (c *collector) skip(err *EntryUnreadableError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Skipped = append(c.result.Skipped, err)
}

// Scan walks the tree depth-first and hashes included files on a bounded worker pool.
// Only a failure to list the root is returned as an error (*RootUnreadableError),
// apart from ctx cancellation and an unsupported algorithm.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	if err := s.algorithm.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	c := &collector{result: &Result{Manifest: manifest.New()}}

	jobs := make(chan hashJob, 100)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				hash, err := s.hashFile(job.relPath)
				if err != nil {
					s.logger.Warn("skipped unreadable file", "path", job.relPath, "error", err.Err)
					c.skip(err)
					continue
				}
				c.add(manifest.Record{Path: job.relPath, Hash: hash}, job.size)
			}
		}()
	}

	walkErr := s.walkDir(ctx, "", jobs, c)
	close(jobs)
	wg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := c.result
	result.Manifest.Sort()
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})
	result.Duration = time.Since(start)

	s.logger.Info("scan complete",
		"root", s.fsys.Root(),
		"files", result.Files,
		"bytes", result.Bytes,
		"skipped", len(result.Skipped),
		"duration", result.Duration,
	)
	return result, nil
}

// walkDir lists one directory, filters each child through the excluder
// and recurses into included subdirectories.
func (s *Scanner) walkDir(ctx context.Context, relDir string, jobs chan<- hashJob, c *collector) error {
	infos, err := s.fsys.ReadDir(fsPath(relDir))
	if err != nil {
		if relDir == "" {
			return &RootUnreadableError{Root: s.fsys.Root(), Err: err}
		}
		s.logger.Warn("skipped unreadable directory", "path", relDir, "error", err)
		c.skip(&EntryUnreadableError{Path: relDir, Err: err})
		return nil
	}

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath := path.Join(relDir, info.Name())
		kind, target, err := s.resolve(relPath, info)
		if err != nil {
			// a dangling link is judged as a file
			if s.excluder.IsExcluded(relPath, false) {
				continue
			}
			s.logger.Warn("skipped unresolvable entry", "path", relPath, "error", err)
			c.skip(&EntryUnreadableError{Path: relPath, Err: err})
			continue
		}

		isDir := kind == kindDir || kind == kindDirLink
		if s.excluder.IsExcluded(relPath, isDir) {
			s.logger.Debug("excluded", "path", relPath, "dir", isDir)
			continue
		}

		switch kind {
		case kindDir:
			if err := s.walkDir(ctx, relPath, jobs, c); err != nil {
				return err
			}
		case kindFile:
			jobs <- hashJob{relPath: relPath, size: target.Size()}
		case kindDirLink:
			s.logger.Debug("symlinked directory not followed", "path", relPath)
		default:
			s.logger.Debug("skipped non-regular file", "path", relPath, "mode", target.Mode().String())
		}
	}
	return nil
}

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
	kindDirLink
)

// resolve classifies an entry, following symlinks to their target.
func (s *Scanner) resolve(relPath string, info os.FileInfo) (entryKind, os.FileInfo, error) {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := s.fsys.Stat(fsPath(relPath))
		if err != nil {
			return kindOther, nil, err
		}
		if target.IsDir() {
			if s.followSymlinks {
				return kindDir, target, nil
			}
			return kindDirLink, target, nil
		}
		info = target
	}

	switch {
	case info.IsDir():
		return kindDir, info, nil
	case info.Mode().IsRegular():
		return kindFile, info, nil
	default:
		return kindOther, info, nil
	}
}

// hashFile streams one file through the digest. The handle is closed on every path.
func (s *Scanner) hashFile(relPath string) (string, *EntryUnreadableError) {
	f, err := s.fsys.Open(fsPath(relPath))
	if err != nil {
		return "", &EntryUnreadableError{Path: relPath, Err: err}
	}
	defer f.Close()

	hash, err := digest.Sum(s.algorithm, f)
	if err != nil {
		return "", &EntryUnreadableError{Path: relPath, Err: err}
	}
	return hash, nil
}

func fsPath(relPath string) string {
	return filepath.FromSlash(relPath)
}
