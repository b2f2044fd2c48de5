package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/manifest"
	"github.com/lexandro/kushn/tools"
)

// errChangesDetected makes verify exit non-zero when the tree differs from the manifest.
var errChangesDetected = errors.New("tree does not match the manifest")

func newVerifyCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Rescan the tree and compare it with the saved manifest",
		Long: `Rescans the tree and compares every hash with the saved manifest.

Added, modified and deleted files are listed. The command exits with
status 1 when anything changed, so it can gate CI jobs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, opts, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the change set as JSON")
	return cmd
}

func runVerify(cmd *cobra.Command, opts *options, asJSON bool) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}

	stored, err := ws.baseline()
	if errors.Is(err, manifest.ErrNotFound) {
		return fmt.Errorf("no manifest at %s, run 'kushn scan' first: %w", opts.name, err)
	}
	if err != nil {
		return err
	}

	result, err := ws.scan(cmd.Context())
	if err != nil {
		return err
	}

	changes := manifest.Diff(stored, result.Manifest)
	ws.logger.Info("verify complete",
		"added", len(changes.Added),
		"modified", len(changes.Modified),
		"deleted", len(changes.Deleted),
	)

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(changes); err != nil {
			return fmt.Errorf("encoding change set: %w", err)
		}
	} else {
		fmt.Fprint(out, tools.FormatChangeSet(changes))
	}

	if !changes.IsEmpty() {
		return fmt.Errorf("%w: %d changes", errChangesDetected, changes.TotalChanges())
	}
	return nil
}
