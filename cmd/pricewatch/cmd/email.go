package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func testEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "test-email <recipient>",
		Short:   "Send a test email to verify SMTP settings",
		Example: `  pricewatch test-email buyer@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.notifier.SendTest(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Test email sent to %s.\n", args[0])
			return nil
		},
	}
}
