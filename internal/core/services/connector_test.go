package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/txctest"
)

func newTestConnector(t *testing.T, fake *txctest.Fake) *Connector {
	t.Helper()
	c, err := New(fake, t.TempDir(), domain.LogMinimum, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_Initializes(t *testing.T) {
	fake := txctest.New()
	dir := t.TempDir()

	c, err := New(fake, dir, domain.LogMaximum, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, fake.Initialized())
	assert.Equal(t, dir, fake.LogDir())
	assert.Equal(t, domain.LogMaximum, fake.Level())
}

func TestNew_MissingLogDir(t *testing.T) {
	fake := txctest.New()

	_, err := New(fake, "/definitely/not/a/directory", domain.LogMinimum, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInitialization)
	// The native Initialize must not have been reached.
	assert.False(t, fake.Initialized())
	// The failed construction released the module.
	assert.True(t, fake.Unloaded())
}

func TestNew_NativeInitFailure(t *testing.T) {
	fake := txctest.New()
	fake.InitErr = "log directory is locked"

	_, err := New(fake, t.TempDir(), domain.LogMinimum, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInitialization)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "log directory is locked", de.Message)

	// The error buffer itself was guarded and released.
	assert.Zero(t, fake.LiveBuffers())
	assert.True(t, fake.Unloaded())
}

func TestSetLogLevel(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	require.NoError(t, c.SetLogLevel(domain.LogDefault))
	assert.Equal(t, domain.LogDefault, fake.Level())

	fake.SetLogLevelErr = "connector is stopped"
	err := c.SetLogLevel(domain.LogMaximum)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Zero(t, fake.LiveBuffers())
}

func TestClose_StopsAndUnloads(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)

	require.NoError(t, c.Close())
	assert.False(t, fake.Initialized())
	assert.True(t, fake.Unloaded())

	// Close is idempotent.
	require.NoError(t, c.Close())
}

func TestSharedOwnership_LastOwnerTearsDown(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)

	s1 := c.Sender()
	s2 := s1.Clone()

	// The connector going away must not stop the module while senders
	// still own it.
	require.NoError(t, c.Close())
	assert.True(t, fake.Initialized())
	assert.False(t, fake.Unloaded())

	s1.Close()
	assert.True(t, fake.Initialized())

	s2.Close()
	assert.False(t, fake.Initialized())
	assert.True(t, fake.Unloaded())
}

func TestClose_UninitializeFailureIsLoggedNotPropagated(t *testing.T) {
	fake := txctest.New()
	fake.UninitErr = "threads did not stop"

	c := newTestConnector(t, fake)
	assert.NoError(t, c.Close())
	assert.Zero(t, fake.LiveBuffers())
	assert.True(t, fake.Unloaded())
}
