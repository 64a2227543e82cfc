package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quickfile",
		Short: "Fuzzy file search client for the quickfile daemon",
		Long:  "quickfile is the client for the quickfile indexing daemon: an interactive quick launcher and a scriptable CLI, both speaking line-delimited JSON over Unix domain sockets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("a subcommand is required")
		},
	}

	rootCmd.AddCommand(
		newLaunchCmd(),
		newSearchCmd(),
		newStatusCmd(),
		newRefreshCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
