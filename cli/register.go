package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lexandro/kushn/register"
)

func newRegisterCmd(opts *options) *cobra.Command {
	var serverName string

	cmd := &cobra.Command{
		Use:   "register (project|user) [-- serve flags]",
		Short: "Add 'kushn serve' to an MCP client configuration",
		Long: `Adds an entry that starts 'kushn serve' to an MCP client configuration.

  kushn register project            # → <root>/.mcp.json, serving <root>
  kushn register user               # → ~/.claude.json, serving the client's working directory
  kushn register project -- --gitignore --algorithm xxhash64

Flags after -- are passed to 'kushn serve'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, opts, serverName, args)
		},
	}
	cmd.Flags().StringVar(&serverName, "server-name", "kushn", "Name of the entry under mcpServers")
	return cmd
}

func runRegister(cmd *cobra.Command, opts *options, serverName string, args []string) error {
	var serveFlags []string
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		serveFlags = args[dash:]
		args = args[:dash]
	}
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one scope (project or user), got %v", args)
	}

	scope, err := register.ParseScope(args[0])
	if err != nil {
		return err
	}

	serveArgs := []string{"serve"}
	var directory string
	if scope == register.ScopeProject {
		directory, err = resolveRoot(opts.root)
		if err != nil {
			return err
		}
		serveArgs = append(serveArgs, "--root", directory)
	}
	serveArgs = append(serveArgs, serveFlags...)

	configPath, err := register.ConfigPath(scope, directory)
	if err != nil {
		return err
	}
	binaryPath, err := register.BinaryPath()
	if err != nil {
		return err
	}

	entry := register.NewEntry(runtime.GOOS, binaryPath, serveArgs)
	if err := register.Write(configPath, serverName, entry); err != nil {
		return err
	}

	opts.logger.Info("registered MCP server", "name", serverName, "config", configPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", serverName, configPath)
	return nil
}
