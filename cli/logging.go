package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// setupLogger creates an slog.Logger writing to stderr or a file.
// Nothing is ever logged to stdout: it carries command output and the MCP stdio transport.
// The returned func closes the log file, if one was opened.
func setupLogger(level, format, logFile string, stderr io.Writer) (*slog.Logger, func()) {
	var writer io.Writer = stderr
	closeLog := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
			closeLog = func() { _ = f.Close() }
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}
	return slog.New(handler), closeLog
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
