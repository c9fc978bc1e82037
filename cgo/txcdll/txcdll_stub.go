//go:build !cgo

package txcdll

import (
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// Library is a stub for builds without CGO; Load always fails, so no method
// is ever reached.
type Library struct{}

var _ driven.Native = (*Library)(nil)

// Load is a stub for builds without CGO.
func Load(path string) (*Library, error) {
	return nil, domain.NewError(domain.ErrLoading, "LoadLibrary", "",
		"binary was built without cgo support")
}

// Initialize implements driven.Native.
func (l *Library) Initialize(string, domain.LogLevel) unsafe.Pointer { return nil }

// SetLogLevel implements driven.Native.
func (l *Library) SetLogLevel(domain.LogLevel) unsafe.Pointer { return nil }

// SendCommand implements driven.Native.
func (l *Library) SendCommand([]byte) unsafe.Pointer { return nil }

// SetCallback implements driven.Native.
func (l *Library) SetCallback(driven.RawHandler) bool { return false }

// FreeMemory implements driven.Native.
func (l *Library) FreeMemory(unsafe.Pointer) bool { return false }

// Uninitialize implements driven.Native.
func (l *Library) Uninitialize() unsafe.Pointer { return nil }

// Unload implements driven.Native.
func (l *Library) Unload() error { return nil }
