package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/outreach/internal/core/account"
	"github.com/example/outreach/internal/core/profileurl"
)

// NormalizeCmd returns the normalize command
func NormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <profile-ref>...",
		Short: "Show the canonical form of profile references",
		Long: `Print the canonical profile reference, detected platform and public identifier
for each argument.

Examples:
  outreach normalize linkedin.com/in/jane-roe/
  outreach normalize https://instagram.com/jane.roe`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				normalized := profileurl.Normalize(raw)
				platform := profileurl.DetectPlatform(normalized)
				if platform == profileurl.PlatformUnknown {
					platform = "unknown"
				}
				fmt.Fprintf(out, "%s\n  canonical:  %s\n  platform:   %s\n  identifier: %s\n",
					raw,
					color.New(color.FgGreen).Sprint(normalized),
					platform,
					profileurl.PublicIdentifier(normalized))
			}
		},
	}
}

// AccountCmd returns the account command
func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Connected provider account helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "map-status <message>",
		Short: "Show how a provider status message maps to an account status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			status := account.MapStatus(args[0])
			active := color.New(color.FgRed).Sprint("inactive")
			if account.IsActive(status) {
				active = color.New(color.FgGreen).Sprint("active")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s (%s)\n", args[0], status, active)
		},
	})
	return cmd
}

// EventsCmd returns the events command
func EventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage the durable webhook fingerprint store",
	}

	var olderThan time.Duration
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete processed-event fingerprints older than a cutoff",
		Long: `Delete durable dedup fingerprints older than --older-than (default: the
configured OUTREACH_DEDUP_TTL).

Examples:
  outreach events purge
  outreach events purge --older-than 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			if olderThan <= 0 {
				olderThan = rt.cfg.DedupTTL
			}
			events, err := rt.container.ProcessedEvents()
			if err != nil {
				return err
			}
			removed, err := events.Purge(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Purged %d fingerprint(s) older than %s\n", okMark, removed, olderThan)
			return nil
		},
	}
	purge.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff")
	cmd.AddCommand(purge)
	return cmd
}
