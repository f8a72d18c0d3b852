package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newExperienceCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experience",
		Aliases: []string{"exp"},
		Short:   "List work experience",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().GetExperiences(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOMPANY\tPOSITION\tDURATION")
			for _, e := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Company, e.Position, e.FormattedDuration)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one experience entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.client().GetExperience(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), e)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s at %s (%s)\n", e.Position, e.Company, e.ID)
			fmt.Fprintf(out, "%s, %s\n", e.FormattedDuration, e.WorkType)
			for _, a := range e.Achievements {
				fmt.Fprintf(out, "- %s\n", a)
			}
			if len(e.Technologies) > 0 {
				fmt.Fprintf(out, "technologies: %s\n", strings.Join(e.Technologies, ", "))
			}
			return nil
		},
	})
	return cmd
}
