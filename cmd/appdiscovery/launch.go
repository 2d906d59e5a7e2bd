package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/discovery"
)

func newLaunchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "launch <keyword>",
		Short: "Launch the best matching app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			results, err := a.disc.SearchLimit(cmd.Context(), args[0], 1)
			if err != nil {
				return err
			}
			apps := results.FilterByKind(discovery.KindApp)
			if len(apps) == 0 {
				return fmt.Errorf("%w: no app matches %q", discovery.ErrNotFound, args[0])
			}

			top := apps[0]
			if err := a.disc.Launch(cmd.Context(), top); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Launched %s\n", top.App.Name)
			return err
		},
	}
}
