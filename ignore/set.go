package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// DefaultIgnoreFile is the ignore file looked up at the scan root.
const DefaultIgnoreFile = ".kushnignore"

// Set is the immutable collection of rules parsed from one ignore file.
// A nil or empty Set excludes nothing.
type Set struct {
	rules []Rule
}

// NewSet builds a Set from patterns, applying the same line rules as Parse.
func NewSet(patterns ...string) *Set {
	s := &Set{}
	for _, pattern := range patterns {
		s.add(pattern)
	}
	return s
}

// Parse reads an ignore file: one pattern per line, blank lines and "#" comments skipped.
func Parse(r io.Reader) (*Set, error) {
	s := &Set{}
	scanner := bufio.NewScanner(r)
	// no line length limit: an oversized pattern is still just a rule
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for scanner.Scan() {
		s.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore rules: %w", err)
	}
	return s, nil
}

// Load parses the ignore file name from fsys. A missing file yields an empty Set.
func Load(fsys billy.Filesystem, name string) (*Set, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Set{}, nil
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return s, nil
}

func (s *Set) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	s.rules = append(s.rules, ParseRule(line))
}

// IsExcluded reports whether any rule excludes the entry.
func (s *Set) IsExcluded(relativePath string, isDir bool) bool {
	if s == nil {
		return false
	}
	for _, rule := range s.rules {
		if rule.Matches(relativePath, isDir) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the parsed rules in file order.
func (s *Set) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
