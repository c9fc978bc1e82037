// Package txctest provides an in-process fake of the native connector
// module. It produces real NUL-terminated buffers from Go memory and keeps
// them alive until FreeMemory, so the buffer-guard and parser code paths
// run unmodified against it.
package txctest

import (
	"strings"
	"sync"
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// DefaultReply is returned for any command when no Reply script is set.
const DefaultReply = `<result success="true"/>`

// Fake is a scripted driven.Native implementation.
type Fake struct {
	// Reply maps a command (without terminator) to the connector's reply.
	// nil means every command succeeds with DefaultReply.
	Reply func(cmd string) string

	// FailSetCallback makes handler registration report failure.
	FailSetCallback bool

	// FailFree makes FreeMemory report failure while still releasing the
	// buffer, matching the undocumented native condition.
	FailFree bool

	// InitErr / SetLogLevelErr / UninitErr, when non-empty, turn the
	// corresponding call into a failure carrying that message.
	InitErr        string
	SetLogLevelErr string
	UninitErr      string

	mu          sync.Mutex
	buffers     map[unsafe.Pointer][]byte
	handler     driven.RawHandler
	initialized bool
	unloaded    bool
	frees       int
	doubleFrees int
	logDir      string
	level       domain.LogLevel
	commands    []string
}

var _ driven.Native = (*Fake)(nil)

// New returns an empty Fake where every command succeeds.
func New() *Fake {
	return &Fake{buffers: make(map[unsafe.Pointer][]byte)}
}

// alloc hands out a NUL-terminated buffer owned by the fake until
// FreeMemory releases it.
func (f *Fake) alloc(msg string) unsafe.Pointer {
	b := make([]byte, len(msg)+1)
	copy(b, msg)
	p := unsafe.Pointer(&b[0])
	f.mu.Lock()
	f.buffers[p] = b
	f.mu.Unlock()
	return p
}

// Initialize implements driven.Native.
func (f *Fake) Initialize(logDir string, level domain.LogLevel) unsafe.Pointer {
	if f.InitErr != "" {
		return f.alloc(f.InitErr)
	}
	f.mu.Lock()
	f.initialized = true
	f.logDir = logDir
	f.level = level
	f.mu.Unlock()
	return nil
}

// SetLogLevel implements driven.Native.
func (f *Fake) SetLogLevel(level domain.LogLevel) unsafe.Pointer {
	if f.SetLogLevelErr != "" {
		return f.alloc(f.SetLogLevelErr)
	}
	f.mu.Lock()
	f.level = level
	f.mu.Unlock()
	return nil
}

// SendCommand implements driven.Native.
func (f *Fake) SendCommand(cmd []byte) unsafe.Pointer {
	text := strings.TrimSuffix(string(cmd), "\x00")
	f.mu.Lock()
	f.commands = append(f.commands, text)
	f.mu.Unlock()

	reply := DefaultReply
	if f.Reply != nil {
		reply = f.Reply(text)
	}
	return f.alloc(reply)
}

// SetCallback implements driven.Native.
func (f *Fake) SetCallback(fn driven.RawHandler) bool {
	if f.FailSetCallback {
		return false
	}
	f.mu.Lock()
	f.handler = fn
	f.mu.Unlock()
	return true
}

// FreeMemory implements driven.Native.
func (f *Fake) FreeMemory(p unsafe.Pointer) bool {
	f.mu.Lock()
	_, live := f.buffers[p]
	if live {
		delete(f.buffers, p)
		f.frees++
	} else {
		f.doubleFrees++
	}
	f.mu.Unlock()
	return live && !f.FailFree
}

// Uninitialize implements driven.Native.
func (f *Fake) Uninitialize() unsafe.Pointer {
	if f.UninitErr != "" {
		return f.alloc(f.UninitErr)
	}
	f.mu.Lock()
	f.initialized = false
	f.mu.Unlock()
	return nil
}

// Unload implements driven.Native.
func (f *Fake) Unload() error {
	f.mu.Lock()
	f.unloaded = true
	f.mu.Unlock()
	return nil
}

// Deliver pushes one asynchronous message through the registered handler,
// synchronously on the calling goroutine, exactly like the connector's
// delivery thread would. It is a no-op when no handler is registered.
func (f *Fake) Deliver(msg string) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return
	}
	h(f.alloc(msg))
}

// Handler returns the currently registered raw handler.
func (f *Fake) Handler() driven.RawHandler {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handler
}

// LiveBuffers reports how many handed-out buffers were not yet freed.
func (f *Fake) LiveBuffers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buffers)
}

// Frees reports how many buffers were released exactly once.
func (f *Fake) Frees() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frees
}

// DoubleFrees reports FreeMemory calls on already-released pointers.
func (f *Fake) DoubleFrees() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doubleFrees
}

// Initialized reports whether the fake is between Initialize and
// Uninitialize.
func (f *Fake) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

// Unloaded reports whether Unload was called.
func (f *Fake) Unloaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unloaded
}

// LogDir returns the directory passed to Initialize.
func (f *Fake) LogDir() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logDir
}

// Level returns the most recently configured log level.
func (f *Fake) Level() domain.LogLevel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// Commands returns every submitted command in order.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}
