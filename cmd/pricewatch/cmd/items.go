package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		targetPrice    float64
		recipientEmail string
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Track a new product",
		Long: "Extracts the current product name and price from the listing page and\n" +
			"adds the item to the catalog. If the price is already at or below the\n" +
			"target, a notification is sent immediately.",
		Example: `  pricewatch add "https://www.example.com/dp/B0TEST" --target 1499 --email buyer@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := rt.tracker.AddItem(cmd.Context(), args[0], targetPrice, recipientEmail)
			if err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("%s", res.Message)
			}

			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Println(res.Message)
			return nil
		},
	}

	cmd.Flags().Float64Var(&targetPrice, "target", 0, "target price that triggers a notification")
	cmd.Flags().StringVar(&recipientEmail, "email", "", "recipient email for drop notifications")
	cobra.CheckErr(cmd.MarkFlagRequired("target"))
	cobra.CheckErr(cmd.MarkFlagRequired("email"))

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked products",
		Example: `  pricewatch list
  pricewatch list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := buildRuntime(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			items, skipped, err := rt.tracker.ListItems(cmd.Context())
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d corrupt catalog rows skipped\n", skipped)
			}

			if jsonOutput() {
				return outputJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No products tracked.")
				return nil
			}
			return printItemsTable(items)
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <index>",
		Short:   "Stop tracking a product",
		Example: `  pricewatch remove 0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be an integer, got %q", args[0])
			}

			rt, err := buildRuntime(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			ok, err := rt.tracker.DeleteItem(cmd.Context(), index)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no item at position %d", index)
			}

			fmt.Printf("Item %d removed.\n", index)
			return nil
		},
	}
}
