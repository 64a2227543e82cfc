package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quickfile/internal/config"
	"quickfile/internal/protocol"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Print the daemon's index status",
		Long:         "Query the daemon for its index status and print the raw JSON response line.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := sessionLogger(cfg)
			defer log.Close()

			line, err := callDaemon(log, bridgeClient(cfg), protocol.NewStatus(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if line != "" {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
