package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
	remote     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "appdiscovery",
		Short: "Find and launch applications by name",
		Long: `appdiscovery - fuzzy application launcher

Type part of an application's name to find it. Results are ranked by how
often the typed text occurs in the name. A keyword that is valid JSON also
yields a pretty-printed copy of it.

Without a subcommand, the interactive picker is started.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/appdiscovery/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.remote, "remote", "", "search the apps of another launcher's MCP server (http://, sse://)")

	root.AddCommand(
		newSearchCmd(opts),
		newLaunchCmd(opts),
		newListCmd(opts),
		newPickCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
	)
	return root
}
