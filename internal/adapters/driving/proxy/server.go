// Package proxy multiplexes independent connector instances over TCP. Each
// accepted control connection gets its own session: a dedicated data
// channel for asynchronous deliveries and a command/response loop on the
// control socket. In isolated mode a session lives in its own process, so a
// native-module crash cannot take down sibling sessions or the listener.
package proxy

import (
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/cgo/txcdll"
	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// Config carries the per-server settings; see the config package for the
// file format behind it.
type Config struct {
	ControlPort int
	ModulePath  string
	SessionsDir string
	Level       domain.LogLevel
	Isolate     bool
}

// Server accepts control connections and hands each one to a session
// worker.
type Server struct {
	cfg Config
	log zerolog.Logger

	// loadNative is swapped for a fake in tests.
	loadNative func(path string) (driven.Native, error)
}

// New returns a Server for cfg.
func New(cfg Config, log zerolog.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		loadNative: func(path string) (driven.Native, error) {
			lib, err := txcdll.Load(path)
			if err != nil {
				return nil, err
			}
			return lib, nil
		},
	}
}

// ListenAndServe binds the control listener and serves until the listener
// fails. When the configured port is taken it falls back to an ephemeral
// one; the bound address is logged.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.ControlPort))
	if err != nil {
		s.log.Warn().Int("port", s.cfg.ControlPort).Err(err).Msg("control port taken, falling back to an ephemeral port")
		l, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return domain.NewError(domain.ErrIO, "", "", err.Error())
		}
	}
	defer l.Close()
	return s.Serve(l)
}

// Serve runs the accept loop on l. Sessions run isolated in child processes
// where supported and configured, in-process goroutines otherwise.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info().Stringer("addr", l.Addr()).Bool("isolate", s.isolated()).Msg("control listener started")

	for {
		conn, err := l.Accept()
		if err != nil {
			return domain.NewError(domain.ErrIO, "", "", err.Error())
		}
		if s.isolated() {
			if err := s.spawnSession(conn); err != nil {
				s.log.Error().Err(err).Msg("session handoff failed")
			}
			conn.Close()
			continue
		}
		go s.handleSession(conn)
	}
}

func (s *Server) isolated() bool {
	return s.cfg.Isolate && handoffSupported()
}
