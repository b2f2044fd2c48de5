package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/scanner"
)

// FormatScanSummary formats the totals of a scan as human-readable text.
func FormatScanSummary(result *scanner.Result) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Hashed %d files (%s) in %s\n",
		result.Files, formatFileSize(result.Bytes), result.Duration.Round(time.Millisecond)))

	if len(result.Skipped) > 0 {
		builder.WriteString(fmt.Sprintf("Skipped %d unreadable entries:\n", len(result.Skipped)))
		for _, skipped := range result.Skipped {
			builder.WriteString(fmt.Sprintf("  %s: %v\n", skipped.Path, skipped.Err))
		}
	}
	return builder.String()
}

// FormatManifest lists every record as "hash  path", the layout of sha256sum.
func FormatManifest(m *manifest.Manifest) string {
	if m.Len() == 0 {
		return "No files hashed."
	}

	var builder strings.Builder
	for _, record := range m.Records {
		builder.WriteString(record.Hash)
		builder.WriteString("  ")
		builder.WriteString(record.Path)
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatChangeSet formats the differences between a stored manifest and a fresh scan.
func FormatChangeSet(cs *manifest.ChangeSet) string {
	if cs.IsEmpty() {
		return "No changes: every file matches the stored manifest.\n"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d changes:\n", cs.TotalChanges()))
	writeGroup(&builder, "Added", "+", cs.Added)
	writeGroup(&builder, "Modified", "~", cs.Modified)
	writeGroup(&builder, "Deleted", "-", cs.Deleted)
	return builder.String()
}

func writeGroup(builder *strings.Builder, title, marker string, paths []string) {
	if len(paths) == 0 {
		return
	}
	builder.WriteString(fmt.Sprintf("\n%s (%d):\n", title, len(paths)))
	for _, path := range paths {
		builder.WriteString(fmt.Sprintf("  %s %s\n", marker, path))
	}
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
