// Package cli wires the cobra commands of the txcproxy binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tradewire-labs/txconn/internal/logger"
)

var version = "0.4.0"

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "txcproxy",
	Short: "Session proxy for the native trading connector",
	Long: `txcproxy exposes independent connector instances over one TCP control
endpoint. Each accepted connection gets its own connector session with a
dedicated data channel; on supported platforms the session runs in its own
process.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to txcproxy.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
