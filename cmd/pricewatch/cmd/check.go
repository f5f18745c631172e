package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Re-check all tracked products now",
		Long: "Fetches the current price of every tracked item, updates the catalog,\n" +
			"and sends a notification for each item whose price dropped to or below\n" +
			"its target.",
		Example: `  pricewatch check
  pricewatch check --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := buildRuntime(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			defer rt.close()

			summary, err := rt.tracker.CheckAll(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(summary)
			}

			fmt.Println(summary.Message())
			if summary.Checked > 0 {
				fmt.Printf("Checked %d, updated %d, drops %d, notified %d.\n",
					summary.Checked, summary.Updated, summary.Drops, summary.Notified)
			}
			if summary.SendFailures > 0 && !dryRun {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"warning: %d notifications failed to send\n", summary.SendFailures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "detect drops but do not send email")

	return cmd
}
