package ignore

import (
	"fmt"
	"strings"
)

// StarterPatterns seed a new .kushnignore written by `kushn init`.
// They are never applied implicitly: a root without an ignore file hashes everything.
// Every entry is a plain path literal or a *.ext wildcard.
var StarterPatterns = []StarterGroup{
	{"Version control", []string{".git", ".svn", ".hg"}},
	{"Dependencies", []string{"node_modules", "vendor", "bower_components", ".npm", ".yarn"}},
	{"Build output", []string{"dist", "build", "out", "target", "bin", "obj"}},
	{"IDE / Editor", []string{".idea", ".vscode", ".vs", "*.swp", "*.swo"}},
	{"OS files", []string{".DS_Store", "Thumbs.db", "desktop.ini"}},
	{"Python", []string{"__pycache__", "*.pyc", "*.pyo", ".venv", "venv"}},
	{"Cache", []string{".cache", ".parcel-cache", ".next", ".nuxt"}},
	{"Coverage", []string{"coverage", ".nyc_output", "htmlcov"}},
	{"Logs and temp files", []string{"*.log", "*.tmp"}},
}

// StarterGroup is one commented section of the starter ignore file.
type StarterGroup struct {
	Title    string
	Patterns []string
}

// StarterFile renders StarterPatterns as ignore file content.
func StarterFile() string {
	var builder strings.Builder
	builder.WriteString("# kushn ignore rules: one pattern per line.\n")
	builder.WriteString("#   name      excludes a file or folder with that path and everything under it\n")
	builder.WriteString("#   dir/sub   excludes a nested path and everything under it\n")
	builder.WriteString("#   *.ext     excludes every file ending in .ext\n")

	for _, group := range StarterPatterns {
		builder.WriteString(fmt.Sprintf("\n# %s\n", group.Title))
		for _, pattern := range group.Patterns {
			builder.WriteString(pattern)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
