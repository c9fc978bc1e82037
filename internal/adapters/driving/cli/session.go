package cli

import (
	"github.com/spf13/cobra"

	"github.com/tradewire-labs/txconn/internal/adapters/driving/proxy"
	"github.com/tradewire-labs/txconn/internal/logger"
)

// sessionCmd is the re-exec entry of an isolated session process. The
// parent passes the control connection as an inherited descriptor and the
// session parameters over stdin; this command never makes sense to run by
// hand.
var sessionCmd = &cobra.Command{
	Use:    "session",
	Hidden: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return proxy.RunChild(logger.Default("session"))
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
