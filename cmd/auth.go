package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamkorga/aweber-exporter/internal/auth"
	"github.com/adamkorga/aweber-exporter/internal/config"
	"github.com/adamkorga/aweber-exporter/internal/logging"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to your AWeber account",
		Long: `Run the OAuth2 authorization-code flow against AWeber.

A browser URL is printed; after you log in and approve access, AWeber
redirects back to a short-lived listener on the loopback address. The
resulting access/refresh token pair is cached locally for later exports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := logging.New(verbose)

			authn := auth.New(cfg, logger)
			if err := authn.Authorize(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("Authorized. Credential cached in %s\n", cfg.TokenFile)
			return nil
		},
	}
	return cmd
}
