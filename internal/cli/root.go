// Package cli implements portfolioctl, the command-line client for the
// portfolio API and its admin credentials.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"portfolio-backend/pkg/apiclient"
)

type options struct {
	apiURL string
	asJSON bool
}

func (o *options) client() *apiclient.Client {
	// one-shot commands have nothing to reuse a cache for
	return apiclient.New(o.apiURL, apiclient.WithStaleTime(0))
}

// NewRootCommand builds the portfolioctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Query the portfolio API and manage admin credentials",
		Long: `portfolioctl talks to a running portfolio API.

Examples:
  portfolioctl health
  portfolioctl projects --featured
  portfolioctl experience get 65f1c0...
  portfolioctl hash-key s3cret`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("PORTFOLIO_API_URL")
	if defaultURL == "" {
		defaultURL = apiclient.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", defaultURL, "API base URL")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print raw JSON")

	root.AddCommand(
		newHealthCommand(opts),
		newProjectsCommand(opts),
		newExperienceCommand(opts),
		newContactCommand(opts),
		newHashKeyCommand(),
		newTokenCommand(),
	)
	return root
}

// Execute runs portfolioctl with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API liveness and database status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.client().HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), h)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\ndatabase: %s\nuptime: %.0fs\n", h.Status, h.Database, h.Uptime)
			return nil
		},
	}
}
