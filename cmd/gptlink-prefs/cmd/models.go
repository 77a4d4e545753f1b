package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(opts *options, run runner) *cobra.Command {
	c := &cobra.Command{
		Use:   "models",
		Short: "List the model selector entries",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error {
			groups, err := s.models.ListModelGroups()
			if err != nil {
				return err
			}
			current := s.prefs.Get().Model
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tMODEL\tSELECTABLE\tCURRENT")
			for _, g := range groups {
				for _, m := range g.Models {
					mark := ""
					if m.Key == current {
						mark = "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", g.ProviderName, m.DisplayName, m.Enabled, mark)
				}
			}
			return tw.Flush()
		}),
	}
	c.AddCommand(newModelToggleCmd("enable", true, run), newModelToggleCmd("disable", false, run))
	return c
}

func newModelToggleCmd(use string, enabled bool, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <model>",
		Short: fmt.Sprintf("%s a model in the selector", use),
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error {
			m, err := s.models.SetModelEnabled(args[0], enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s selectable=%t\n", m.Key, m.Enabled)
			return nil
		}),
	}
}
