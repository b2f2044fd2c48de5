// Package cli implements the kushn command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/ignore"
	"github.com/lexandro/kushn/manifest"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// options holds the persistent flags shared by every command.
type options struct {
	root           string
	name           string
	ignoreFile     string
	gitignore      bool
	excludes       []string
	algorithm      string
	workers        int
	followSymlinks bool
	includeSelf    bool

	logLevel  string
	logFormat string
	logFile   string

	logger   *slog.Logger
	closeLog func()
}

func (o *options) close() {
	if o.closeLog != nil {
		o.closeLog()
	}
}

// newRootCmd builds the command tree. Running kushn without a subcommand scans.
func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kushn",
		Short: "Hash every file under a directory into a JSON manifest",
		Long: `kushn walks a directory tree, hashes every file that is not excluded by
the root's .kushnignore, and writes the sorted list of path and hash pairs
to a JSON manifest.

Ignore file lines are either a path (a file or folder, excluded together
with everything under it) or *.ext (every file with that extension).
Blank lines and lines starting with # are skipped.

Use 'kushn verify' to compare the tree against a saved manifest.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, closeLog := setupLogger(opts.logLevel, opts.logFormat, opts.logFile, cmd.ErrOrStderr())
			opts.logger = logger
			opts.closeLog = closeLog
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "",
		"Directory to hash (default: current working directory)")
	flags.StringVarP(&opts.name, "name", "n", manifest.DefaultName,
		"Manifest file, relative to the root unless absolute")
	flags.StringVar(&opts.ignoreFile, "ignore-file", ignore.DefaultIgnoreFile,
		"Ignore file name, read from the root")
	flags.BoolVar(&opts.gitignore, "gitignore", false,
		"Also honor the root .gitignore")
	flags.StringArrayVar(&opts.excludes, "exclude", nil,
		"Extra glob pattern to exclude (repeatable, doublestar syntax)")
	flags.StringVar(&opts.algorithm, "algorithm", "sha256",
		"Hash algorithm (sha256, xxhash64)")
	flags.IntVar(&opts.workers, "workers", 8,
		"Number of files hashed in parallel")
	flags.BoolVar(&opts.followSymlinks, "follow-symlinks", false,
		"Descend into symlinked directories")
	flags.BoolVar(&opts.includeSelf, "include-self", false,
		"Append an entry for the manifest file itself")
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFormat, "log-format", "text",
		"Log format (text, json)")
	flags.StringVar(&opts.logFile, "log-file", "",
		"Log file path (default: stderr)")

	rootCmd.AddCommand(
		newScanCmd(opts),
		newVerifyCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newInitCmd(opts),
		newRegisterCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// newVersionCmd shows version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kushn %s (%s)\n", Version, GitCommit)
		},
	}
}

// run executes kushn with the given arguments and output streams.
func run(args []string, stdout, stderr io.Writer) error {
	opts := &options{}
	defer opts.close()

	rootCmd := newRootCmd(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// Execute runs the root command.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns a fresh root command for testing.
func RootCmd() *cobra.Command {
	return newRootCmd(&options{})
}
