package ignore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
	"github.com/go-git/go-billy/v5"
)

// GitIgnoreFile is the git ignore file consulted when MatcherOptions.UseGitIgnore is set.
const GitIgnoreFile = ".gitignore"

// Matcher decides whether an entry is excluded from the manifest.
// It is the union of the .kushnignore rules, the root .gitignore (opt-in),
// extra doublestar globs and exact paths.
// Thread-safe: Reload() acquires a write lock, IsExcluded() a read lock.
type Matcher struct {
	mu           sync.RWMutex
	fsys         billy.Filesystem
	ignoreFile   string
	useGitIgnore bool
	rules        *Set
	gitIgnore    gitignore.GitIgnore
	globs        []string
	exactPaths   map[string]struct{}
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	IgnoreFile      string   // relative to the root, defaults to .kushnignore
	UseGitIgnore    bool     // also honor the root .gitignore
	ExcludePatterns []string // doublestar globs, matched against the relative path and the base name
	ExcludePaths    []string // exact relative paths, e.g. the manifest file itself
}

// NewMatcher loads the ignore files from fsys and validates the extra glob patterns.
// A missing ignore file is not an error.
func NewMatcher(fsys billy.Filesystem, options MatcherOptions) (*Matcher, error) {
	ignoreFile := options.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}

	globs := make([]string, 0, len(options.ExcludePatterns))
	for _, pattern := range options.ExcludePatterns {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
		globs = append(globs, pattern)
	}

	exactPaths := make(map[string]struct{}, len(options.ExcludePaths))
	for _, p := range options.ExcludePaths {
		exactPaths[normalizeLiteral(strings.ReplaceAll(p, "\\", "/"))] = struct{}{}
	}

	matcher := &Matcher{
		fsys:         fsys,
		ignoreFile:   ignoreFile,
		useGitIgnore: options.UseGitIgnore,
		globs:        globs,
		exactPaths:   exactPaths,
	}
	if err := matcher.Reload(); err != nil {
		return nil, err
	}
	return matcher, nil
}

// IsExcluded reports whether the entry at relativePath (forward slashes) is excluded.
func (m *Matcher) IsExcluded(relativePath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.exactPaths[relativePath]; ok {
		return true
	}

	if m.rules.IsExcluded(relativePath, isDir) {
		return true
	}

	// Relative() doesn't require the path to exist on disk
	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesGlobs(relativePath)
}

// matchesGlobs checks the path and its base name against the --exclude globs.
func (m *Matcher) matchesGlobs(relativePath string) bool {
	baseName := path.Base(relativePath)
	for _, pattern := range m.globs {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Rules returns the currently loaded .kushnignore set.
func (m *Matcher) Rules() *Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules
}

// IsIgnoreFile reports whether relativePath is one of the ignore files the matcher reads.
// Watch mode uses this to decide when to Reload.
func (m *Matcher) IsIgnoreFile(relativePath string) bool {
	if relativePath == m.ignoreFile {
		return true
	}
	return m.useGitIgnore && relativePath == GitIgnoreFile
}

// Reload re-reads the ignore files. On error the previous rules stay in effect.
func (m *Matcher) Reload() error {
	rules, err := Load(m.fsys, m.ignoreFile)
	if err != nil {
		return err
	}

	var gi gitignore.GitIgnore
	if m.useGitIgnore {
		gi, err = loadGitIgnore(m.fsys)
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = rules
	m.gitIgnore = gi
	return nil
}

// loadGitIgnore parses the root .gitignore, returning nil when there is none.
// The handle is closed before returning so Windows can replace the file.
func loadGitIgnore(fsys billy.Filesystem) (gitignore.GitIgnore, error) {
	f, err := fsys.Open(GitIgnoreFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", GitIgnoreFile, err)
	}
	defer f.Close()

	return gitignore.New(f, fsys.Root(), nil), nil
}
