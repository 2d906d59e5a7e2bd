package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change appdiscovery configuration.

Without a subcommand, lists every key with its value.
Keys are in the format section.key.

Examples:
  appdiscovery config
  appdiscovery config get search.limit
  appdiscovery config set search.backend bleve
  appdiscovery config set apps.dirs "/Applications,~/Applications"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFile(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range config.ListKeys() {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%s = %s\n", key, value); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "\nConfig file: %s\n", configFile(opts))
			return err
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), configFile(opts))
				return err
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfigFile(opts)
				if err != nil {
					return err
				}
				value, err := cfg.Get(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
				return err
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfigFile(opts)
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				if err := cfg.SaveToFile(configFile(opts)); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
				return err
			},
		},
	)
	return cmd
}
