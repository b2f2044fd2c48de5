package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lexandro/kushn/manifest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VerifyArgs defines the input parameters for the kushn_verify tool (none required).
type VerifyArgs struct{}

// VerifyHandler holds the dependencies for the verify tool.
type VerifyHandler struct {
	DoScan ScanFunc
	Store  *manifest.Store
	// Untracked lists stored paths a scan never produces, such as the manifest's own entry.
	Untracked []string
	Logger    *slog.Logger
}

// Handle processes a kushn_verify request: the stored manifest is compared
// against a fresh scan. Changes are reported as a successful result.
func (h *VerifyHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args VerifyArgs) (*mcp.CallToolResult, any, error) {
	stored, err := h.Store.Load()
	if errors.Is(err, manifest.ErrNotFound) {
		h.Logger.Warn("kushn_verify called without a stored manifest", "manifest", h.Store.Name())
		return errorResult(fmt.Sprintf("No manifest at %s. Run kushn_scan with save first.", h.Store.Name())), nil, nil
	}
	if err != nil {
		h.Logger.Error("kushn_verify failed to load manifest", "error", err)
		return errorResult(fmt.Sprintf("Load error: %v", err)), nil, nil
	}

	for _, path := range h.Untracked {
		stored.Remove(path)
	}

	result, err := h.DoScan(ctx)
	if err != nil {
		h.Logger.Error("kushn_verify scan failed", "error", err)
		return errorResult(fmt.Sprintf("Scan error: %v", err)), nil, nil
	}

	changes := manifest.Diff(stored, result.Manifest)

	h.Logger.Info("kushn_verify complete",
		"added", len(changes.Added),
		"modified", len(changes.Modified),
		"deleted", len(changes.Deleted),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatChangeSet(changes)}},
	}, nil, nil
}
