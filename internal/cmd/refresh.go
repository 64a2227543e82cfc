package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quickfile/internal/config"
	"quickfile/internal/protocol"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "refresh",
		Short:        "Ask the daemon to rebuild its file index",
		Long:         "Request an index rebuild. Prints the daemon's completion response when one arrives before the timeout; otherwise the request is fire-and-forget.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := sessionLogger(cfg)
			defer log.Close()

			line, err := callDaemon(log, bridgeClient(cfg), protocol.NewRefresh(), cmd.ErrOrStderr())
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
