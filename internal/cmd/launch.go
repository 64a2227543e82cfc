package cmd

import (
	"github.com/spf13/cobra"

	"quickfile/internal/config"
	"quickfile/internal/launcher"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "launch",
		Short:        "Open the interactive quick launcher",
		Long:         "Open the full-screen quick launcher: type to fuzzy-search the daemon's file index, enter opens the selection, esc cancels.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			reqPath, respPath, err := sessionSocketPaths(cfg)
			if err != nil {
				return err
			}

			log := sessionLogger(cfg)
			defer log.Close()

			return launcher.Run(launcher.Options{
				RequestPath:  reqPath,
				ResponsePath: respPath,
				Debounce:     debounceDuration(cfg),
				SearchLimit:  cfg.SearchLimit,
				OpenCommand:  cfg.OpenCommand,
				Log:          log,
			})
		},
	}
}
