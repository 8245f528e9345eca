package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "Print the seller's business policies",
		Long: `Fetches the account's payment, fulfillment, and return policies
and prints them as JSON. Use the IDs to fill in the marketplace
section of the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			policies, err := a.sell.BusinessPolicies(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(policies, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding policies: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if missing := a.cfg.Marketplace.ValidatePolicies(); len(missing) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"config is missing policy IDs: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
