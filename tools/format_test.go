package tools

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/scanner"
)

// --- formatFileSize ---

func Test_FormatFileSize_Bytes(t *testing.T) {
	got := formatFileSize(500)
	if got != "500 B" {
		t.Errorf("expected '500 B', got '%s'", got)
	}
}

func Test_FormatFileSize_Kilobytes(t *testing.T) {
	got := formatFileSize(2048)
	if got != "2.0 KB" {
		t.Errorf("expected '2.0 KB', got '%s'", got)
	}
}

func Test_FormatFileSize_Megabytes(t *testing.T) {
	got := formatFileSize(3 * 1024 * 1024)
	if got != "3.0 MB" {
		t.Errorf("expected '3.0 MB', got '%s'", got)
	}
}

// --- formatDuration ---

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_1m0s", 60 * time.Second, "1m0s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_2h0m", 2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

// --- FormatManifest ---

func Test_FormatManifest_Empty(t *testing.T) {
	got := FormatManifest(manifest.New())
	if got != "No files hashed." {
		t.Errorf("expected 'No files hashed.', got '%s'", got)
	}
}

func Test_FormatManifest_HashThenPath(t *testing.T) {
	m := manifest.New()
	m.Add(manifest.Record{Path: "a.txt", Hash: "aaaa"})
	m.Add(manifest.Record{Path: "dir/b.txt", Hash: "bbbb"})

	got := FormatManifest(m)

	want := "aaaa  a.txt\nbbbb  dir/b.txt\n"
	if got != want {
		t.Errorf("FormatManifest() = %q, want %q", got, want)
	}
}

// --- FormatChangeSet ---

func Test_FormatChangeSet_NoChanges(t *testing.T) {
	got := FormatChangeSet(manifest.NewChangeSet())
	if !strings.HasPrefix(got, "No changes") {
		t.Errorf("expected 'No changes' message, got '%s'", got)
	}
}

func Test_FormatChangeSet_Groups(t *testing.T) {
	cs := &manifest.ChangeSet{
		Added:    []string{"new.txt"},
		Modified: []string{"changed.txt", "dir/also.txt"},
	}

	got := FormatChangeSet(cs)

	checks := []string{
		"Found 3 changes",
		"Added (1):",
		"  + new.txt",
		"Modified (2):",
		"  ~ dir/also.txt",
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, got)
		}
	}
	if strings.Contains(got, "Deleted") {
		t.Errorf("expected empty groups to be omitted, got:\n%s", got)
	}
}

// --- FormatScanSummary ---

func Test_FormatScanSummary_ListsSkipped(t *testing.T) {
	result := &scanner.Result{
		Manifest: manifest.New(),
		Files:    2,
		Bytes:    2048,
		Duration: 1500 * time.Millisecond,
		Skipped: []*scanner.EntryUnreadableError{
			{Path: "locked.txt", Err: os.ErrPermission},
		},
	}

	got := FormatScanSummary(result)

	if !strings.Contains(got, "Hashed 2 files (2.0 KB) in 1.5s") {
		t.Errorf("expected totals, got:\n%s", got)
	}
	if !strings.Contains(got, "locked.txt: "+os.ErrPermission.Error()) {
		t.Errorf("expected skipped entry, got:\n%s", got)
	}
}

func Test_FormatScanSummary_NoSkipped(t *testing.T) {
	got := FormatScanSummary(&scanner.Result{Manifest: manifest.New()})
	if strings.Contains(got, "Skipped") {
		t.Errorf("expected no skipped section, got:\n%s", got)
	}
}
