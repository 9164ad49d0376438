package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/outreach/internal/cli"
	"github.com/example/outreach/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "outreach",
		Short:   "Social outreach gateway with webhook reconciliation",
		Version: version.String(),
		Long: `outreach fronts a social messaging provider. It exposes lookup, invite and
message actions per platform, and reconciles provider webhooks into lead state:
connection acceptances advance leads, reveal phone numbers and trigger calls.`,
	}

	// Service
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.WebhookCmd())
	rootCmd.AddCommand(cli.EventsCmd())

	// Inspection tools
	rootCmd.AddCommand(cli.NormalizeCmd())
	rootCmd.AddCommand(cli.AccountCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
