// Package cmd implements the command-line interface for aweber-exporter.
//
// This package provides the following commands:
//   - auth: Run the OAuth2 authorization flow and cache the credential
//   - export: Fetch all broadcasts and write the Markdown dump
//   - version: Display version information
//
// The export command is the default command when no subcommand is specified.
package cmd
