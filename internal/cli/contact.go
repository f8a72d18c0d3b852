package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-backend/pkg/apiclient"
)

func newContactCommand(opts *options) *cobra.Command {
	var form apiclient.ContactForm

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Submit the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range []string{form.FirstName, form.LastName, form.Email, form.Subject, form.Message} {
				if strings.TrimSpace(v) == "" {
					return errors.New("all of --first, --last, --email, --subject and --message are required")
				}
			}
			res, err := opts.client().SubmitContactForm(cmd.Context(), form)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\ncontact id: %s\nemail sent: %t\n", res.Message, res.ContactID, res.EmailSent)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&form.Email, "email", "", "reply address")
	cmd.Flags().StringVar(&form.Subject, "subject", "", "subject line")
	cmd.Flags().StringVarP(&form.Message, "message", "m", "", "message body")
	return cmd
}
