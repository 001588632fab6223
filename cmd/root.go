package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the aweber-exporter application
var rootCmd = &cobra.Command{
	Use:   "aweber-exporter",
	Short: "Exports AWeber broadcasts to a single Markdown document",
	Long: `aweber-exporter authenticates against the AWeber API with OAuth2,
fetches every broadcast (sent, scheduled, draft) of the account's first
subscriber list and writes them to one Markdown file, including the inbox
preview text embedded in each broadcast's HTML.

Run 'aweber-exporter auth' once to authorize; after that a plain
'aweber-exporter' run performs the export using the cached credential.`,
	SilenceUsage: true,
}

var verbose bool

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "aweber-exporter version %s\n" .Version}}`)

	// If no subcommand is provided, run the export command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "export")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newVersionCmd())
}
