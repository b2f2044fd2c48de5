package ignore

import "strings"

// RuleKind selects how a Rule is matched against a path.
type RuleKind int

const (
	// PathLiteral excludes a path equal to the pattern and everything nested beneath it.
	PathLiteral RuleKind = iota
	// ExtensionWildcard (*.ext) excludes files whose name ends in .ext.
	ExtensionWildcard
)

// String returns the kind name used in logs.
func (k RuleKind) String() string {
	switch k {
	case ExtensionWildcard:
		return "extension"
	default:
		return "path"
	}
}

// Rule is a single parsed line of an ignore file.
type Rule struct {
	raw     string
	kind    RuleKind
	literal string // normalized path for PathLiteral, ".ext" suffix for ExtensionWildcard
}

// ParseRule classifies one trimmed pattern. Any text is accepted; a pattern that
// can never match a real path is still a valid rule.
func ParseRule(pattern string) Rule {
	normalized := strings.ReplaceAll(pattern, "\\", "/")

	if strings.HasPrefix(normalized, "*.") {
		return Rule{
			raw:     pattern,
			kind:    ExtensionWildcard,
			literal: normalized[1:],
		}
	}

	return Rule{
		raw:     pattern,
		kind:    PathLiteral,
		literal: normalizeLiteral(normalized),
	}
}

// Raw returns the pattern as written in the ignore file.
func (r Rule) Raw() string { return r.raw }

// Kind returns the rule classification.
func (r Rule) Kind() RuleKind { return r.kind }

// Matches reports whether the rule excludes the entry at relativePath.
// relativePath must use forward slashes and be relative to the scan root.
func (r Rule) Matches(relativePath string, isDir bool) bool {
	switch r.kind {
	case ExtensionWildcard:
		if isDir {
			return false
		}
		return strings.HasSuffix(baseName(relativePath), r.literal)
	default:
		return matchesLiteral(r.literal, relativePath)
	}
}

// matchesLiteral checks the literal against every segment-aligned suffix of the path,
// so "folder" matches "folder", "folder/x", "a/folder" and "a/folder/x" alike.
func matchesLiteral(literal string, relativePath string) bool {
	if literal == "" {
		return false
	}

	rest := relativePath
	for {
		if rest == literal || strings.HasPrefix(rest, literal+"/") {
			return true
		}
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return false
		}
		rest = rest[slash+1:]
	}
}

// normalizeLiteral drops "./" and "/" anchors and trailing slashes: "ghost/" and "ghost" are the same rule.
func normalizeLiteral(pattern string) string {
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	pattern = strings.TrimLeft(pattern, "/")
	return strings.TrimRight(pattern, "/")
}

func baseName(relativePath string) string {
	if i := strings.LastIndexByte(relativePath, '/'); i >= 0 {
		return relativePath[i+1:]
	}
	return relativePath
}
