package cli

import (
	"github.com/spf13/cobra"
)

const ServiceName = "tablebot"

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           ServiceName,
		Short:         "Restaurant table reservation webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewBookingsCmd())
	cmd.AddCommand(NewCustomersCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}
