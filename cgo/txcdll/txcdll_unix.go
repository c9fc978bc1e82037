//go:build cgo && !windows

package txcdll

/*
#cgo LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>
#include <stdbool.h>

typedef unsigned char BYTE;
typedef _Bool (*txc_callback_ex)(BYTE*, void*);

extern _Bool txconnTrampoline(unsigned char*, void*);

static BYTE* txc_call_initialize(void* fn, const char* path, int level) {
	return ((BYTE* (*)(const BYTE*, int))fn)((const BYTE*)path, level);
}
static BYTE* txc_call_set_log_level(void* fn, int level) {
	return ((BYTE* (*)(int))fn)(level);
}
static BYTE* txc_call_send_command(void* fn, BYTE* cmd) {
	return ((BYTE* (*)(BYTE*))fn)(cmd);
}
static _Bool txc_call_set_callback_ex(void* fn, void* ctx) {
	return ((_Bool (*)(txc_callback_ex, void*))fn)(txconnTrampoline, ctx);
}
static _Bool txc_call_free_memory(void* fn, BYTE* p) {
	return ((_Bool (*)(BYTE*))fn)(p);
}
static BYTE* txc_call_uninitialize(void* fn) {
	return ((BYTE* (*)(void))fn)();
}
*/
import "C"

import (
	"errors"
	"os"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// Library is a loaded connector module. It implements driven.Native over
// dlopen/dlsym.
type Library struct {
	handle unsafe.Pointer
	syms   symtab

	// cbMu guards the pinned payload handle across registration. The old
	// handle is released only after SetCallbackEx reports success, so a
	// delivery mid-dispatch with the previous handler never observes a
	// freed payload.
	cbMu sync.Mutex
	cb   cgo.Handle
}

var _ driven.Native = (*Library)(nil)

// Load loads the shared module at path and resolves the six required entry
// points. Any failure is atomic: either a fully populated Library is
// returned or the module is closed again.
func Load(path string) (*Library, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewError(domain.ErrLoading, "LoadLibrary", "", err.Error())
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	h := C.dlopen(cpath, C.RTLD_NOW)
	if h == nil {
		return nil, domain.NewError(domain.ErrLoading, "LoadLibrary", "", dlerror())
	}

	syms, err := resolveSymbols(func(name string) (uintptr, error) {
		cname := C.CString(name)
		defer C.free(unsafe.Pointer(cname))
		C.dlerror()
		p := C.dlsym(h, cname)
		if p == nil {
			return 0, errors.New(dlerror())
		}
		return uintptr(p), nil
	})
	if err != nil {
		C.dlclose(h)
		return nil, err
	}

	return &Library{handle: h, syms: syms}, nil
}

func dlerror() string {
	if e := C.dlerror(); e != nil {
		return C.GoString(e)
	}
	return "unknown dlopen error"
}

// Initialize implements driven.Native.
func (l *Library) Initialize(logDir string, level domain.LogLevel) unsafe.Pointer {
	cdir := C.CString(logDir)
	defer C.free(unsafe.Pointer(cdir))
	return unsafe.Pointer(C.txc_call_initialize(unsafe.Pointer(l.syms.initialize), cdir, C.int(level)))
}

// SetLogLevel implements driven.Native.
func (l *Library) SetLogLevel(level domain.LogLevel) unsafe.Pointer {
	return unsafe.Pointer(C.txc_call_set_log_level(unsafe.Pointer(l.syms.setLogLevel), C.int(level)))
}

// SendCommand implements driven.Native. The connector copies the payload
// before returning, so handing it the Go buffer directly is safe.
func (l *Library) SendCommand(cmd []byte) unsafe.Pointer {
	return unsafe.Pointer(C.txc_call_send_command(unsafe.Pointer(l.syms.sendCommand), (*C.uchar)(unsafe.Pointer(&cmd[0]))))
}

// SetCallback implements driven.Native. The handler is type-erased behind a
// cgo.Handle whose integer value travels through the module as the opaque
// context pointer.
func (l *Library) SetCallback(fn driven.RawHandler) bool {
	nh := cgo.NewHandle(fn)

	l.cbMu.Lock()
	defer l.cbMu.Unlock()

	ok := bool(C.txc_call_set_callback_ex(unsafe.Pointer(l.syms.setCallbackEx), unsafe.Pointer(uintptr(nh))))
	if !ok {
		nh.Delete()
		return false
	}
	if l.cb != 0 {
		l.cb.Delete()
	}
	l.cb = nh
	return true
}

// FreeMemory implements driven.Native.
func (l *Library) FreeMemory(p unsafe.Pointer) bool {
	return bool(C.txc_call_free_memory(unsafe.Pointer(l.syms.freeMemory), (*C.uchar)(p)))
}

// Uninitialize implements driven.Native.
func (l *Library) Uninitialize() unsafe.Pointer {
	return unsafe.Pointer(C.txc_call_uninitialize(unsafe.Pointer(l.syms.uninitialize)))
}

// Unload implements driven.Native. The payload pin is dropped here: the
// connector is stopped by now and dispatches no further deliveries.
func (l *Library) Unload() error {
	l.cbMu.Lock()
	if l.cb != 0 {
		l.cb.Delete()
		l.cb = 0
	}
	l.cbMu.Unlock()

	if C.dlclose(l.handle) != 0 {
		return domain.NewError(domain.ErrLoading, "FreeLibrary", "", dlerror())
	}
	return nil
}
