//go:build !unix

package proxy

import (
	"net"

	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// Connection handoff is not implemented on this platform; the server falls
// back to in-process sessions.

func handoffSupported() bool { return false }

func (s *Server) spawnSession(net.Conn) error {
	return domain.NewError(domain.ErrIO, "", "", "connection handoff is not supported on this platform")
}

// RunChild is the entry point of an isolated session process on platforms
// with handoff support.
func RunChild(zerolog.Logger) error {
	return domain.NewError(domain.ErrIO, "", "", "connection handoff is not supported on this platform")
}
