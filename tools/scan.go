package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/scanner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ScanArgs defines the input parameters for the kushn_scan tool.
type ScanArgs struct {
	Save bool `json:"save,omitempty" jsonschema:"Write the resulting manifest to disk, replacing the previous one"`
}

// ScanFunc runs a full scan of the configured root.
// It is provided by the cli package so tools never build their own scanner.
type ScanFunc func(ctx context.Context) (*scanner.Result, error)

// SaveFunc persists a manifest as the new baseline.
// The cli package provides one that honors --include-self.
type SaveFunc func(m *manifest.Manifest) error

// ScanHandler holds the dependencies for the scan tool.
// DoSave defaults to Store.Save.
type ScanHandler struct {
	DoScan ScanFunc
	DoSave SaveFunc
	Store  *manifest.Store
	Logger *slog.Logger
}

// Handle processes a kushn_scan request.
func (h *ScanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ScanArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("kushn_scan started", "save", args.Save)

	result, err := h.DoScan(ctx)
	if err != nil {
		h.Logger.Error("kushn_scan failed", "error", err)
		return errorResult(fmt.Sprintf("Scan error: %v", err)), nil, nil
	}

	var builder strings.Builder
	builder.WriteString(FormatScanSummary(result))

	if args.Save {
		save := h.DoSave
		if save == nil {
			save = h.Store.Save
		}
		if err := save(result.Manifest); err != nil {
			h.Logger.Error("kushn_scan save failed", "error", err)
			return errorResult(fmt.Sprintf("Save error: %v", err)), nil, nil
		}
		builder.WriteString(fmt.Sprintf("Saved manifest to %s\n", h.Store.Name()))
	}

	builder.WriteString("\n")
	builder.WriteString(FormatManifest(result.Manifest))

	h.Logger.Info("kushn_scan complete",
		"files", result.Files,
		"skipped", len(result.Skipped),
		"duration", result.Duration,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
