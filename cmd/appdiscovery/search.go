package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/discovery"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Print the apps matching a keyword",
		Long: `Print the applications whose name contains the keyword, best match first.

The keyword is matched case-insensitively as one contiguous piece of text;
keywords longer than search.max_token_width never match an app.

Examples:
  appdiscovery search cal
  appdiscovery search --limit 10 --json term
  appdiscovery search '{"a":1}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New("--limit must be positive")
			}

			a, err := newApp(cmd.Context(), cmd, opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			results, err := a.disc.SearchLimit(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of app results (default search.limit)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	if results, ok := v.(discovery.Results); ok && results == nil {
		v = discovery.Results{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResults prints app results as aligned name/path columns, followed by
// the output of any plugin results.
func writeResults(w io.Writer, results discovery.Results) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results.FilterByKind(discovery.KindApp) {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.App.Name, r.App.Path); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range results.FilterByKind(discovery.KindPlugin) {
		header := fmt.Sprintf("[%s] %s", r.Plugin.Icon, r.Plugin.Name)
		if _, err := fmt.Fprintf(w, "%s\n%s\n", header, strings.TrimRight(r.Plugin.Output, "\n")); err != nil {
			return err
		}
	}
	return nil
}
