// Package logger configures zerolog for the binding and the proxy.
// Components receive scoped loggers; fatal conditions in the callback
// bridge use these before aborting.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a component-scoped console logger writing to w.
func New(w io.Writer, component string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("component", component).Logger()
}

// Default returns a component-scoped logger writing to stderr.
func Default(component string) zerolog.Logger {
	return New(os.Stderr, component)
}

// SetVerbose switches the global level between info and debug.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
