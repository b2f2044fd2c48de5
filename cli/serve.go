package cli

import (
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/server"
	"github.com/lexandro/kushn/tools"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server on stdio exposing scan, verify and status tools",
		Long: `Runs a Model Context Protocol server on stdin/stdout.

Every tool call rescans the root and re-reads the ignore files, so the
server never serves stale hashes. Logs go to stderr or --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	startTime := time.Now()

	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}

	logger := ws.logger
	logger.Info("starting kushn server",
		"root", ws.rootDir,
		"manifest", opts.name,
		"algorithm", ws.algorithm,
	)

	scanHandler, verifyHandler, statusHandler := ws.toolHandlers(startTime)
	mcpServer := server.Setup(Version, scanHandler, verifyHandler, statusHandler)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// toolHandlers wires the MCP tools to the workspace, so tool scans and saves
// behave like the CLI commands.
func (w *workspace) toolHandlers(startTime time.Time) (*tools.ScanHandler, *tools.VerifyHandler, *tools.StatusHandler) {
	scanHandler := &tools.ScanHandler{
		DoScan: w.rescan,
		DoSave: w.save,
		Store:  w.store,
		Logger: w.logger,
	}
	verifyHandler := &tools.VerifyHandler{
		DoScan:    w.rescan,
		Store:     w.store,
		Untracked: []string{w.selfRecord},
		Logger:    w.logger,
	}
	statusHandler := &tools.StatusHandler{
		Store:     w.store,
		Matcher:   w.matcher,
		Algorithm: w.algorithm,
		StartTime: startTime,
		RootDir:   w.rootDir,
		Logger:    w.logger,
	}
	return scanHandler, verifyHandler, statusHandler
}
