//go:build !txcfast

package services

import (
	"runtime"
	"unicode/utf8"

	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// goroutineID extracts the current goroutine's id from the runtime stack
// header ("goroutine N [...]"). Only the re-entrancy guard uses it; the
// txcfast build compiles the guard away entirely.
func goroutineID() int64 {
	var stack [64]byte
	n := runtime.Stack(stack[:], false)
	// skip "goroutine "
	var id int64
	for _, c := range stack[10:n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

func (h *handle) markDelivery()   { h.deliveryGID.Store(goroutineID()) }
func (h *handle) unmarkDelivery() { h.deliveryGID.Store(0) }

// onDeliveryGoroutine reports whether the caller is inside handler dispatch.
// Sending from there would re-enter the connector's internal lock and
// deadlock.
func (h *handle) onDeliveryGoroutine() bool {
	gid := h.deliveryGID.Load()
	return gid != 0 && gid == goroutineID()
}

// checkCommand validates the Sender contract: payload is non-empty,
// NUL-terminated and valid text. Violations are programmer errors and are
// reported eagerly instead of reaching the native module.
func checkCommand(cmd []byte) error {
	if len(cmd) == 0 || cmd[len(cmd)-1] != 0 {
		return domain.NewError(domain.ErrInvalidCommand, "SendCommand", string(cmd),
			"command payload must end with a NUL terminator")
	}
	if !utf8.Valid(cmd[:len(cmd)-1]) {
		return domain.NewError(domain.ErrInvalidCommand, "SendCommand", "",
			"command payload must be valid UTF-8")
	}
	return nil
}
