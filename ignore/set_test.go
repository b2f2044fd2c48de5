package ignore

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func Test_Parse_SkipsBlankAndCommentLines(t *testing.T) {
	content := "folder\n\n   \n# comment\n  *.log  \nfolder/sub\r\n"

	set, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules := set.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	want := []string{"folder", "*.log", "folder/sub"}
	for i, rule := range rules {
		if rule.Raw() != want[i] {
			t.Errorf("rule %d = %q, want %q", i, rule.Raw(), want[i])
		}
	}
}

func Test_Parse_AcceptsMalformedLines(t *testing.T) {
	set, err := Parse(strings.NewReader("[unclosed\n**\n*.\n"))
	if err != nil {
		t.Fatalf("malformed lines must not be an error, got %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 rules, got %d", set.Len())
	}
	if set.IsExcluded("src/main.go", false) {
		t.Error("expected malformed rules to leave ordinary files alone")
	}
}

func Test_Parse_LongLineIsAccepted(t *testing.T) {
	fs := memfs.New()
	content := "folder\n" + strings.Repeat("x", 70*1024) + "\n*.log\n"
	if err := util.WriteFile(fs, DefaultIgnoreFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(fs, DefaultIgnoreFile)
	if err != nil {
		t.Fatalf("a long line must not be an error, got %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 rules, got %d", set.Len())
	}
	if !set.IsExcluded("run.log", false) {
		t.Error("expected the rule after the long line to apply")
	}
}

func Test_Set_EmptyExcludesNothing(t *testing.T) {
	var nilSet *Set
	empty := NewSet()

	for _, s := range []*Set{nilSet, empty} {
		if s.IsExcluded("a.txt", false) || s.IsExcluded("folder", true) {
			t.Error("expected empty set to exclude nothing")
		}
		if s.Len() != 0 {
			t.Errorf("expected 0 rules, got %d", s.Len())
		}
	}
}

func Test_Set_IsUnionOfRules(t *testing.T) {
	forward := NewSet("folder", "*.log")
	reversed := NewSet("*.log", "folder")

	paths := []struct {
		path  string
		isDir bool
	}{
		{"folder", true},
		{"folder/a.txt", false},
		{"run.log", false},
		{"run.txt", false},
		{"logs.log", true},
	}

	for _, p := range paths {
		if forward.IsExcluded(p.path, p.isDir) != reversed.IsExcluded(p.path, p.isDir) {
			t.Errorf("rule order changed the outcome for %q", p.path)
		}
	}
	if !forward.IsExcluded("run.log", false) {
		t.Error("expected run.log to be excluded")
	}
	if forward.IsExcluded("run.txt", false) {
		t.Error("expected run.txt to be included")
	}
}

func Test_Load_MissingFileIsEmpty(t *testing.T) {
	fs := memfs.New()

	set, err := Load(fs, DefaultIgnoreFile)
	if err != nil {
		t.Fatalf("missing ignore file must not be an error, got %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d rules", set.Len())
	}
}

func Test_Load_ReadsRules(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, DefaultIgnoreFile, []byte("folder\n*.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(fs, DefaultIgnoreFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 rules, got %d", set.Len())
	}
}

func Test_StarterFile_ParsesBackToStarterPatterns(t *testing.T) {
	set, err := Parse(strings.NewReader(StarterFile()))
	if err != nil {
		t.Fatal(err)
	}

	var total int
	for _, group := range StarterPatterns {
		total += len(group.Patterns)
	}
	if set.Len() != total {
		t.Errorf("expected %d rules from the starter file, got %d", total, set.Len())
	}
	if !set.IsExcluded("node_modules/express/index.js", false) {
		t.Error("expected node_modules to be excluded by the starter rules")
	}
	if set.IsExcluded("main.go", false) {
		t.Error("expected main.go to be included by the starter rules")
	}
}
