package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "housesplit",
		Short:        "Household expense splitting: ledgers, balances and settle-up plans",
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(planCmd())
	return cmd
}
