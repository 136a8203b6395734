package main

import (
	"github.com/spf13/cobra"

	"github.com/mmcpwr/pwrseq/pkg/client"
)

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

// NewCommand .
func NewCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pwrseq",
		Short:         "Control card power sequencing",
		Long:          "pwrseq sequences the power rails, reset lines, and external clock of removable storage card slots, and exposes a manual-override control surface for diagnostics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := rootCmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "path to the daemon unix socket")

	for _, g := range commandGroups {
		rootCmd.AddGroup(&cobra.Group{ID: g, Title: g})
	}

	rootCmd.AddCommand(
		NewDaemonCommand(),
		NewStatusCommand(),
		NewOnCommand(),
		NewOffCommand(),
		NewVrefCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
