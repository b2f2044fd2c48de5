package server

import (
	"github.com/lexandro/kushn/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	version string,
	scanHandler *tools.ScanHandler,
	verifyHandler *tools.VerifyHandler,
	statusHandler *tools.StatusHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "kushn",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: `This server hashes every file under one root directory and keeps a manifest of path and content hash pairs.

- Use kushn_verify to find files that were added, modified or deleted since the manifest was saved
- Use kushn_scan to list current hashes; pass save=true to accept the current state as the new baseline
- Use kushn_status to see the root, algorithm and whether a manifest exists
- Paths listed in the root's .kushnignore are never read`,
		},
	)

	// Register kushn_scan tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "kushn_scan",
		Description: `Hash every non-excluded file under the root and return "hash  path" lines.

Arguments:
  - save: also write the manifest to disk, replacing the previous baseline.`,
	}, scanHandler.Handle)

	// Register kushn_verify tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "kushn_verify",
		Description: "Rescan the root and compare it with the saved manifest. Lists added, modified and deleted files.",
	}, verifyHandler.Handle)

	// Register kushn_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "kushn_status",
		Description: "Show root directory, hash algorithm, ignore rule count, manifest state, memory usage and uptime.",
	}, statusHandler.Handle)

	return mcpServer
}
