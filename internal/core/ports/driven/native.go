package driven

import (
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// RawHandler receives the raw buffer pointer of one asynchronous delivery.
// It is invoked synchronously on the connector's own delivery thread and
// must return before the next delivery is dispatched.
type RawHandler func(ptr unsafe.Pointer)

// Native is the six-entry-point ABI of a loaded connector module.
// cgo/txcdll implements it over the real shared library; txctest.Fake
// implements it in-process for tests.
//
// Initialize, SetLogLevel and Uninitialize follow the native convention of
// returning nil on success and a pointer to an error buffer on failure; the
// caller owns that buffer and must release it through FreeMemory.
type Native interface {
	// Initialize starts the connector's internal threads and its file
	// logging in logDir.
	Initialize(logDir string, level domain.LogLevel) unsafe.Pointer

	// SetLogLevel changes the connector log depth without stopping it.
	SetLogLevel(level domain.LogLevel) unsafe.Pointer

	// SendCommand submits one NUL-terminated command and returns the reply
	// buffer. The connector serialises concurrent submissions internally.
	SendCommand(cmd []byte) unsafe.Pointer

	// SetCallback registers the delivery handler, replacing any previous
	// one. Registration calls are serialised by the connector's internal
	// lock. It reports whether registration succeeded.
	SetCallback(fn RawHandler) bool

	// FreeMemory releases a buffer the connector handed out. It reports
	// false on failure, which is undocumented upstream.
	FreeMemory(ptr unsafe.Pointer) bool

	// Uninitialize stops the connector's internal threads and closes its
	// log files.
	Uninitialize() unsafe.Pointer

	// Unload releases the module handle itself. No entry point may be
	// called afterwards.
	Unload() error
}
