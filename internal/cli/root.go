// Package cli wires the vendorcafe command line: the HTTP service and an
// offline total command for scripts.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the root command. Running it without a subcommand
// starts the HTTP service.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vendorcafe",
		Short:         "VendorCafe invoice total service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTotalCmd())

	return rootCmd
}
