package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Hash the tree and write the manifest (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}
}

func runScan(cmd *cobra.Command, opts *options) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}

	result, err := ws.scan(cmd.Context())
	if err != nil {
		return err
	}
	if err := ws.save(result.Manifest); err != nil {
		return err
	}

	ws.logger.Info("manifest written",
		"manifest", opts.name,
		"files", result.Files,
		"bytes", result.Bytes,
		"skipped", len(result.Skipped),
		"duration", result.Duration,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "File hashes generated and saved to %s.\n", opts.name)
	return nil
}
