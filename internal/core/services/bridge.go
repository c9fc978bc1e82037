package services

import (
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// Handler receives one asynchronous delivery. It runs synchronously on the
// connector-owned delivery goroutine; the buffer is released when it
// returns. A handler that blocks indefinitely stalls delivery of every
// subsequent message.
type Handler func(*domain.Buffer)

// register installs fn as the current delivery handler. The previous
// payload is replaced in the slot only after the native registration call
// reports success, so a delivery mid-dispatch with the old handler never
// races a premature release.
func (h *handle) register(fn Handler) bool {
	raw := h.guard(fn)

	h.cbMu.Lock()
	defer h.cbMu.Unlock()

	if !h.native.SetCallback(raw) {
		return false
	}
	h.payload = raw
	return true
}

// guard wraps a user handler into the raw form dispatched from the native
// boundary: nil-pointer check, buffer ownership, panic containment.
func (h *handle) guard(fn Handler) driven.RawHandler {
	return func(ptr unsafe.Pointer) {
		// A panic must never unwind across the native ABI boundary;
		// behaviour there is undefined. Convert it to a fatal log entry
		// and abort.
		defer func() {
			if r := recover(); r != nil {
				h.log.Fatal().Interface("panic", r).Msg("panic in delivery handler")
			}
		}()

		buf, err := domain.NewBuffer(ptr, h.native.FreeMemory, h.log)
		if err != nil {
			// A null delivery is an unrecoverable protocol violation:
			// there is no buffer to return and no safe way to continue.
			h.log.Fatal().Msg("connector delivered a null buffer")
			return
		}
		defer buf.Free()

		h.markDelivery()
		defer h.unmarkDelivery()

		fn(buf)
	}
}
