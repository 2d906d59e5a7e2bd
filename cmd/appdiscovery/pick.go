package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/discovery"
	"github.com/jonwraymond/appdiscovery/picker"
)

func newPickCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Search interactively and launch the chosen app",
		Long: `Open the interactive picker.

Type to search, use up/down to move, Enter to launch the selected app.
For a plugin result, the first Enter shows its output and the second one
prints it. Esc or Ctrl+C cancels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, opts)
		},
	}
}

func runPick(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd, opts, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	search := func(ctx context.Context, keyword string) (discovery.Results, error) {
		return a.disc.Search(ctx, keyword)
	}

	program := tea.NewProgram(
		picker.NewModel(search),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}

	m, ok := final.(picker.Model)
	if !ok {
		return nil
	}
	chosen, ok := m.Result()
	if !ok {
		return nil
	}

	switch chosen.Kind {
	case discovery.KindPlugin:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), chosen.Plugin.Output)
		return err
	default:
		return a.disc.Launch(ctx, chosen)
	}
}
