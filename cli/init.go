package cli

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/ignore"
)

func newInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter ignore file to the root",
		Long: `Writes an ignore file with common exclusions (version control,
dependencies, build output, editor and OS files) to the root.

An existing file is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing ignore file")
	return cmd
}

func runInit(cmd *cobra.Command, opts *options, force bool) error {
	rootDir, err := resolveRoot(opts.root)
	if err != nil {
		return err
	}
	fs := osfs.New(rootDir)

	if _, err := fs.Stat(opts.ignoreFile); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.ignoreFile)
	}

	if err := util.WriteFile(fs, opts.ignoreFile, []byte(ignore.StarterFile()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.ignoreFile, err)
	}

	opts.logger.Info("ignore file written", "root", rootDir, "file", opts.ignoreFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter ignore rules to %s.\n", opts.ignoreFile)
	return nil
}
