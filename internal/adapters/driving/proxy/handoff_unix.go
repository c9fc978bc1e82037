//go:build unix

package proxy

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/cgo/txcdll"
	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

func handoffSupported() bool { return true }

// spawnSession transfers the accepted control connection into a fresh child
// process: the descriptor is inherited as fd 3 and the session parameters
// travel as JSON over the child's stdin. The caller closes its copy of the
// connection afterwards; from then on the child owns it exclusively.
func (s *Server) spawnSession(conn net.Conn) error {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return domain.NewError(domain.ErrIO, "", "", "control connection is not TCP")
	}
	f, err := tcp.File()
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}
	defer f.Close()

	p := s.newSessionParams()
	payload, err := json.Marshal(p)
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}

	exe, err := os.Executable()
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}

	cmd := exec.Command(exe, "session")
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{f}
	if err := cmd.Start(); err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}

	s.log.Info().Str("session", p.SessionID).Int("pid", cmd.Process.Pid).Msg("session process started")
	go func() {
		if err := cmd.Wait(); err != nil {
			s.log.Warn().Str("session", p.SessionID).Err(err).Msg("session process exited")
		}
	}()
	return nil
}

// RunChild is the entry point of an isolated session process. It
// reconstructs the live control connection from the inherited descriptor,
// reads the session parameters from stdin and enters the command loop.
func RunChild(log zerolog.Logger) error {
	var p sessionParams
	if err := json.NewDecoder(os.Stdin).Decode(&p); err != nil {
		return domain.NewError(domain.ErrIO, "", "", "bad session handshake: "+err.Error())
	}

	f := os.NewFile(3, "control")
	if f == nil {
		return domain.NewError(domain.ErrIO, "", "", "control descriptor was not inherited")
	}
	conn, err := net.FileConn(f)
	f.Close()
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}
	defer conn.Close()

	load := func(path string) (driven.Native, error) {
		lib, err := txcdll.Load(path)
		if err != nil {
			return nil, err
		}
		return lib, nil
	}
	return runSession(conn, p, load, log.With().Str("session", p.SessionID).Logger())
}
