package services

import (
	"errors"
	"strings"

	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// Sender submits commands through the shared module handle. It is stateless
// apart from that reference: clones may send concurrently from arbitrary
// goroutines, the connector serialises them internally with no ordering
// guarantee between callers.
//
// A Sender must not be used from inside a delivery handler: the connector
// holds its internal lock during dispatch and a nested send deadlocks.
// Default builds detect and reject that case.
type Sender struct {
	h *handle
}

// Clone returns an independent Sender sharing the same module. The module
// stays loaded until every clone and the Connector are closed.
func (s *Sender) Clone() *Sender {
	s.h.retain()
	return &Sender{h: s.h}
}

// Close releases this Sender's reference to the module.
func (s *Sender) Close() {
	s.h.release()
}

// SendCommand copies the command text, appends the NUL terminator and
// submits it.
func (s *Sender) SendCommand(cmd string) (string, error) {
	b := make([]byte, len(cmd)+1)
	copy(b, cmd)
	return s.Send(b)
}

// Send submits a NUL-terminated command payload and returns the success
// message. A failure reply surfaces as ErrInvalidCommand, an exception
// reply or unexpected shape as ErrInternal; both carry the offending
// command and the connector's message text.
func (s *Sender) Send(cmd []byte) (string, error) {
	if err := checkCommand(cmd); err != nil {
		return "", err
	}
	if s.h.onDeliveryGoroutine() {
		return "", domain.NewError(domain.ErrInternal, "SendCommand", commandText(cmd),
			"send from the delivery goroutine would deadlock the connector")
	}

	p := s.h.native.SendCommand(cmd)
	buf, err := domain.NewBuffer(p, s.h.native.FreeMemory, s.h.log)
	if err != nil {
		return "", err
	}
	defer buf.Free()

	msg, err := domain.ParseSendResponse(buf)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			de.Cmd = commandText(cmd)
		}
		return "", err
	}
	return msg, nil
}

func commandText(cmd []byte) string {
	return strings.TrimSuffix(string(cmd), "\x00")
}
