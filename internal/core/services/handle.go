package services

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// handle is the reference-counted shared ownership of one loaded module.
// Owners are one Connector and any number of Sender clones; the last
// release stops the connector and unloads the module.
type handle struct {
	native driven.Native
	log    zerolog.Logger

	refs        atomic.Int32
	initialized atomic.Bool

	// cbMu guards the single payload slot. Replacing the handler is only
	// safe if the outgoing payload is released strictly after the native
	// registration call reports success; holding cbMu across the call plus
	// the slot write fixes that ordering.
	cbMu    sync.Mutex
	payload driven.RawHandler

	// deliveryGID marks the goroutine currently inside handler dispatch,
	// 0 outside dispatch. Used to reject re-entrant sends that would
	// deadlock against the connector's internal lock.
	deliveryGID atomic.Int64
}

func newHandle(native driven.Native, log zerolog.Logger) *handle {
	h := &handle{native: native, log: log}
	h.refs.Store(1)
	return h
}

func (h *handle) retain() {
	h.refs.Add(1)
}

// release drops one reference. The last owner stops the connector
// (Uninitialize, failures logged: no caller can react during teardown) and
// unloads the module.
func (h *handle) release() {
	if h.refs.Add(-1) != 0 {
		return
	}
	if h.initialized.Load() {
		if p := h.native.Uninitialize(); p != nil {
			h.log.Error().Str("op", "UnInitialize").Msg(h.errText(p))
		}
	}
	if err := h.native.Unload(); err != nil {
		h.log.Error().Err(err).Msg("module unload failed")
	}
}

// errText consumes a non-nil native error buffer and returns its text.
func (h *handle) errText(p unsafe.Pointer) string {
	buf, err := domain.NewBuffer(p, h.native.FreeMemory, h.log)
	if err != nil {
		return err.Error()
	}
	defer buf.Free()
	return buf.String()
}
