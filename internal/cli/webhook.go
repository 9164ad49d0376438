package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/outreach/internal/ctxutil"
)

// WebhookCmd returns the webhook command
func WebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Work with provider webhook payloads",
	}
	cmd.AddCommand(webhookProcessCmd())
	return cmd
}

func webhookProcessCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "process [file|-]",
		Short: "Process one webhook payload through the reconciliation engine",
		Long: `Read a webhook body from a file (or stdin when the argument is "-" or absent)
and process it exactly as the HTTP endpoint would.

Examples:
  outreach webhook process payload.json
  cat payload.json | outreach webhook process --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			svc, err := rt.container.WebhookService()
			if err != nil {
				return err
			}

			ctx := ctxutil.WithRequestID(cmd.Context(), "cli-"+uuid.NewString())
			result := svc.HandleWebhook(ctx, body)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printWebhookResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result as JSON")
	return cmd
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return body, nil
}
