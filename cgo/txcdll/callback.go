//go:build cgo

package txcdll

/*
#include <stdbool.h>
*/
import "C"

import (
	"fmt"
	"os"
	"runtime/cgo"
	"unsafe"

	"github.com/tradewire-labs/txconn/internal/core/ports/driven"
)

// txconnTrampoline is the single native-ABI function pointer registered
// with the module. The connector invokes it on its delivery thread with the
// message buffer and the opaque context installed at registration; the
// context carries a cgo.Handle to the type-erased Go handler.
//
//export txconnTrampoline
func txconnTrampoline(p *C.uchar, ctx unsafe.Pointer) C.bool {
	defer func() {
		// The guarded handler already contains panics; this is the last
		// stop before unwinding into C, where behaviour is undefined.
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "txconn: panic crossed the callback bridge: %v\n", r)
			os.Exit(1)
		}
	}()

	h := cgo.Handle(uintptr(ctx))
	h.Value().(driven.RawHandler)(unsafe.Pointer(p))
	return C.bool(true)
}
