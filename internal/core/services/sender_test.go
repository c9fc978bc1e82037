package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/txctest"
)

func TestSend_Success(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	msg, err := s.Send([]byte("<command id=\"server_status\"/>\x00"))
	require.NoError(t, err)
	assert.Equal(t, `<result success="true"/>`, msg)
	assert.Equal(t, []string{`<command id="server_status"/>`}, fake.Commands())

	// Every reply buffer is released exactly once.
	assert.Equal(t, 1, fake.Frees())
	assert.Zero(t, fake.LiveBuffers())
	assert.Zero(t, fake.DoubleFrees())
}

func TestSendCommand_AppendsTerminator(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	_, err := s.SendCommand(`<command id="disconnect"/>`)
	require.NoError(t, err)
	assert.Equal(t, []string{`<command id="disconnect"/>`}, fake.Commands())
}

func TestSend_InvalidCommandReply(t *testing.T) {
	fake := txctest.New()
	fake.Reply = func(string) string {
		return `<result success="false">unknown command</result>`
	}
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	_, err := s.SendCommand(`<command id="bogus"/>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCommand)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, `<result success="false">unknown command</result>`, de.Message)
	assert.Equal(t, `<command id="bogus"/>`, de.Cmd)
	assert.Zero(t, fake.LiveBuffers())
}

func TestSend_ExceptionReply(t *testing.T) {
	fake := txctest.New()
	fake.Reply = func(string) string {
		return `<error>native exception</error>`
	}
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	_, err := s.SendCommand(`<command id="connect"/>`)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Zero(t, fake.LiveBuffers())
}

func TestSend_RejectsUnterminatedPayload(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	for _, payload := range [][]byte{nil, []byte(""), []byte("<command/>")} {
		_, err := s.Send(payload)
		assert.ErrorIs(t, err, domain.ErrInvalidCommand)
	}
	// Nothing reached the native module.
	assert.Empty(t, fake.Commands())
}

func TestSend_RejectsReentrantSendFromHandler(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	var handlerErr error
	require.True(t, c.Subscribe(func(*domain.Buffer) {
		_, handlerErr = s.SendCommand(`<command id="server_status"/>`)
	}))

	fake.Deliver(`<server_status connected="true"/>`)

	require.Error(t, handlerErr)
	assert.ErrorIs(t, handlerErr, domain.ErrInternal)
	assert.Contains(t, handlerErr.Error(), "deadlock")
	assert.Empty(t, fake.Commands())
}

func TestSend_ConcurrentClones(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	s := c.Sender()
	defer s.Close()

	const workers = 8
	const sends = 25

	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		clone := s.Clone()
		go func() {
			defer clone.Close()
			for j := 0; j < sends; j++ {
				if _, err := clone.SendCommand(`<command id="server_status"/>`); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}

	assert.Len(t, fake.Commands(), workers*sends)
	assert.Zero(t, fake.LiveBuffers())
}

func TestSend_GetConnectorVersionScenario(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	delivered := make(chan string, 1)
	require.True(t, c.Subscribe(func(buf *domain.Buffer) {
		delivered <- buf.String()
	}))

	s := c.Sender()
	defer s.Close()

	msg, err := s.Send([]byte("<command id=\"get_connector_version\"/>\x00"))
	require.NoError(t, err)
	assert.Equal(t, `<result success="true"/>`, msg)

	fake.Deliver("<connector_version>1.2.3.4</connector_version>")
	assert.Equal(t, "<connector_version>1.2.3.4</connector_version>", <-delivered)

	if !strings.HasSuffix(fake.Commands()[0], `id="get_connector_version"/>`) {
		t.Fatalf("unexpected submitted command %q", fake.Commands()[0])
	}
}
