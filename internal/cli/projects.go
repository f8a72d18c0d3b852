package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio-backend/pkg/apiclient"
)

func newProjectsCommand(opts *options) *cobra.Command {
	var featured bool

	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			var (
				items []apiclient.Project
				err   error
			)
			if featured {
				items, err = c.GetFeaturedProjects(cmd.Context())
			} else {
				items, err = c.GetProjects(cmd.Context())
			}
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tLIKES")
			for _, p := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Title, p.Category, p.Status, p.Likes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured projects")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client().GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", p.Title, p.ID)
			fmt.Fprintf(out, "category: %s  status: %s  priority: %d\n", p.Category, p.Status, p.Priority)
			fmt.Fprintf(out, "views: %d  likes: %d\n", p.Views, p.Likes)
			if len(p.Technologies) > 0 {
				fmt.Fprintf(out, "technologies: %s\n", strings.Join(p.Technologies, ", "))
			}
			fmt.Fprintln(out, p.Description)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "like <id>",
		Short: "Like a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			likes, err := opts.client().LikeProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "likes: %d\n", likes)
			return nil
		},
	})
	return cmd
}
