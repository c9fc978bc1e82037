package cli

import (
	"github.com/spf13/cobra"

	"github.com/tradewire-labs/txconn/internal/adapters/driven/config"
	"github.com/tradewire-labs/txconn/internal/adapters/driving/proxy"
	"github.com/tradewire-labs/txconn/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the proxy control listener",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.Default()
		if cfgPath != "" {
			var err error
			if cfg, err = config.Load(cfgPath); err != nil {
				return err
			}
		}

		srv := proxy.New(proxy.Config{
			ControlPort: cfg.ControlPort,
			ModulePath:  cfg.ModulePath,
			SessionsDir: cfg.SessionsDir,
			Level:       cfg.ConnectorLogLevel(),
			Isolate:     cfg.Isolate,
		}, logger.Default("proxy"))
		return srv.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
