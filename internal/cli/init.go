package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/outreach/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		seed  bool
		orgID string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the outreach database",
		Long: `Create the schema in the configured database (OUTREACH_DATABASE_DSN, or the
default SQLite file under the XDG data directory).

Examples:
  outreach init
  outreach init --seed --org org-demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			where := rt.cfg.DatabaseDSN
			if where == "" {
				if where, err = db.DefaultPath(); err != nil {
					return fmt.Errorf("failed to get database path: %w", err)
				}
			}
			fmt.Printf("Initializing outreach database at %s\n", where)

			database, err := rt.container.DB()
			if err != nil {
				return err
			}
			fmt.Printf("%s Schema ready\n", okMark)

			if seed {
				if err := db.SeedFixtures(cmd.Context(), database, orgID); err != nil {
					return err
				}
				fmt.Printf("%s Demo fixtures seeded for %s\n", okMark, orgID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "seed demo pipeline stages, agent and enrichment records")
	cmd.Flags().StringVar(&orgID, "org", "org-demo", "organization id for seeded fixtures")
	return cmd
}
