package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamkorga/aweber-exporter/internal/auth"
	"github.com/adamkorga/aweber-exporter/internal/aweber"
	"github.com/adamkorga/aweber-exporter/internal/config"
	"github.com/adamkorga/aweber-exporter/internal/export"
	"github.com/adamkorga/aweber-exporter/internal/logging"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all broadcasts of the first list to a Markdown file",
		Long: `Fetch every broadcast (draft, scheduled, sent) of the account's first
subscriber list, extract the inbox preview text from each broadcast's HTML
and write the aggregated result to a single Markdown document.

Requires a cached credential; run 'aweber-exporter auth' first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := logging.New(verbose)
			ctx := cmd.Context()

			authn := auth.New(cfg, logger)
			if !authn.HasToken() {
				return fmt.Errorf("no cached credential in %s; run 'aweber-exporter auth' first", cfg.TokenFile)
			}

			tok, err := authn.Token(ctx)
			if err != nil {
				return fmt.Errorf("failed to obtain a valid token: %w", err)
			}

			client := aweber.NewClient(authn.HTTPClient(ctx, tok), cfg.APIBase, logger)
			exporter := export.New(client, logger)

			if output == "" {
				output = cfg.OutputFile
			}
			if err := exporter.Run(ctx, output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Printf("Export written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: OUTPUT_FILE or aweber_dump.md)")
	return cmd
}
