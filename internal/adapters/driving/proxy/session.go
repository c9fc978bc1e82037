package proxy

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
	"github.com/tradewire-labs/txconn/internal/core/services"
)

// commandBufferSize is the initial capacity of the control-channel frame
// reader.
const commandBufferSize = 1 << 20

// sessionParams is what a session worker needs to run. In isolated mode it
// crosses the process boundary as JSON on the child's stdin.
type sessionParams struct {
	SessionID   string `json:"session_id"`
	ModulePath  string `json:"module_path"`
	SessionsDir string `json:"sessions_dir"`
	Level       int    `json:"level"`
}

func (s *Server) newSessionParams() sessionParams {
	return sessionParams{
		SessionID:   uuid.NewString(),
		ModulePath:  s.cfg.ModulePath,
		SessionsDir: s.cfg.SessionsDir,
		Level:       int(s.cfg.Level),
	}
}

// handleSession is the in-process session variant.
func (s *Server) handleSession(conn net.Conn) {
	defer conn.Close()

	p := s.newSessionParams()
	log := s.log.With().Str("session", p.SessionID).Logger()
	if err := runSession(conn, p, s.loadNative, log); err != nil {
		log.Error().Err(err).Msg("session terminated")
		return
	}
	log.Info().Msg("session closed")
}

// runSession drives one full session over an accepted control connection:
// data channel negotiation, a dedicated connector instance, then the
// command/response loop until EOF.
func runSession(control net.Conn, p sessionParams, load func(string) (driven.Native, error), log zerolog.Logger) error {
	dataListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}
	defer dataListener.Close()
	dataPort := uint16(dataListener.Addr().(*net.TCPAddr).Port)

	// Load before announcing the data port, to fail early.
	native, err := load(p.ModulePath)
	if err != nil {
		return err
	}

	var portFrame [2]byte
	binary.LittleEndian.PutUint16(portFrame[:], dataPort)
	if _, err := control.Write(portFrame[:]); err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}

	dataConn, err := dataListener.Accept()
	if err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}
	defer dataConn.Close()
	// The data channel only carries deliveries.
	if tcp, ok := dataConn.(*net.TCPConn); ok {
		tcp.CloseRead()
	}

	logDir := filepath.Join(p.SessionsDir, p.SessionID)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return domain.NewError(domain.ErrIO, "", "", err.Error())
	}

	conn, err := services.New(native, logDir, domain.ParseLogLevel(p.Level), log)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.Subscribe(func(buf *domain.Buffer) {
		if _, err := dataConn.Write(buf.Bytes()); err != nil {
			log.Warn().Err(err).Msg("data channel write failed")
		}
	})

	sender := conn.Sender()
	defer sender.Close()

	reader := bufio.NewReaderSize(control, commandBufferSize)
	for {
		frame, err := reader.ReadBytes(0)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return domain.NewError(domain.ErrIO, "", "", err.Error())
		}

		resp, err := sender.Send(frame)
		if err != nil {
			// The client receives the connector's message text verbatim,
			// not a structured error.
			var de *domain.Error
			if errors.As(err, &de) {
				resp = de.Message
			} else {
				resp = err.Error()
			}
		}
		if _, err := control.Write([]byte(resp)); err != nil {
			return domain.NewError(domain.ErrIO, "", "", err.Error())
		}
	}
}
