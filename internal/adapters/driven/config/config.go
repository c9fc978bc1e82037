// Package config loads the proxy configuration from a TOML file, with the
// connector log depth optionally overridden through the environment.
package config

import (
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// EnvLogLevel overrides the connector log depth for every proxied session.
const EnvLogLevel = "TXC_PROXY_LOG_LEVEL"

// Config is the proxy configuration (txcproxy.toml).
type Config struct {
	// ControlPort is the TCP port of the control listener. When taken, the
	// server falls back to an ephemeral port.
	ControlPort int `toml:"control_port"`

	// ModulePath is the path to the native connector shared module.
	ModulePath string `toml:"module_path"`

	// SessionsDir is the root under which each session gets its own
	// connector log directory.
	SessionsDir string `toml:"sessions_dir"`

	// LogLevel is the connector log depth (1..3).
	LogLevel int `toml:"log_level"`

	// Isolate runs every session in its own process where the platform
	// supports connection handoff.
	Isolate bool `toml:"isolate"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ControlPort: 5555,
		SessionsDir: "sessions",
		LogLevel:    int(domain.LogMinimum),
		Isolate:     true,
	}
}

// Load reads a TOML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ConnectorLogLevel resolves the connector log depth, honouring the
// environment override.
func (c Config) ConnectorLogLevel() domain.LogLevel {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return domain.ParseLogLevel(n)
		}
	}
	return domain.ParseLogLevel(c.LogLevel)
}
