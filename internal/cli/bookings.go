package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect recorded bookings",
	}
	cmd.AddCommand(newBookingsListCmd())
	return cmd
}

func newBookingsListCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "list",
		Short: "List every recorded booking",
		Args:  cobra.NoArgs,
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
			bookings, err := components.Reservations.Bookings(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bookings)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOCATION\tPARTY\tDATE\tTIME\tCUSTOMER")
			for _, b := range bookings {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", b.Location, b.PartySize, b.Date, b.Time, b.CustomerID)
			}
			return tw.Flush()
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print bookings as JSON")
	return c
}
