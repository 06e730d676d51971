package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		expiry  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the admin API",
		Long:  "Sign a token with JWT_SECRET that grants access to the generation history endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if expiry <= 0 {
				expiry = cfg.JWTExpiry
			}

			token, err := crypto.GenerateToken(subject, cfg.JWTSecret, expiry)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "operator name recorded in the token")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime (default JWT_EXPIRY)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
