package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
)

func newHashKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print the bcrypt hash to put in ADMIN_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			m := &auth.Manager{
				Secret:   []byte(cfg.JWTSecret),
				TokenTTL: cfg.AdminTokenTTL,
				Issuer:   cfg.JWTIssuer,
			}
			tok, err := m.NewToken(role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "role claim")
	return cmd
}
