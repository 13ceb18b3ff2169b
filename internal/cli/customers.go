package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Inspect customer profiles",
	}
	cmd.AddCommand(newCustomersGetCmd())
	return cmd
}

func newCustomersGetCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one customer profile and loyalty count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cfg.GracefulShutdown()

			components, err := Wire(cfg)
			if err != nil {
				return err
			}
			customer, err := components.Reservations.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(customer)
			}
			fmt.Fprintf(out, "ID:       %s\n", customer.ID)
			fmt.Fprintf(out, "Username: %s\n", customer.Username)
			fmt.Fprintf(out, "Name:     %s\n", customer.FullName)
			fmt.Fprintf(out, "Phone:    %s\n", customer.Phone)
			fmt.Fprintf(out, "Email:    %s\n", customer.Email)
			fmt.Fprintf(out, "Loyalty:  %d\n", customer.LoyaltyCount)
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return c
}
