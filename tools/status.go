package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/kushn/digest"
	"github.com/lexandro/kushn/ignore"
	"github.com/lexandro/kushn/manifest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the kushn_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     *manifest.Store
	Matcher   *ignore.Matcher
	Algorithm digest.Algorithm
	StartTime time.Time
	RootDir   string
	Logger    *slog.Logger
}

// Handle processes a kushn_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== kushn Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Algorithm: %s\n", h.Algorithm))
	builder.WriteString(fmt.Sprintf("Ignore rules: %d\n", h.Matcher.Rules().Len()))

	records := -1
	if stored, err := h.Store.Load(); err == nil {
		records = stored.Len()
		builder.WriteString(fmt.Sprintf("Manifest: %s (%d records)\n", h.Store.Name(), records))
	} else {
		builder.WriteString(fmt.Sprintf("Manifest: %s (not available: %v)\n", h.Store.Name(), err))
	}

	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	h.Logger.Info("kushn_status",
		"records", records,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}
