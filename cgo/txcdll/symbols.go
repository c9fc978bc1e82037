package txcdll

import (
	"github.com/tradewire-labs/txconn/internal/core/domain"
)

// symtab holds the resolved addresses of the six required entry points.
// Once a symtab exists every pointer in it is non-zero.
type symtab struct {
	initialize    uintptr
	setLogLevel   uintptr
	sendCommand   uintptr
	setCallbackEx uintptr
	freeMemory    uintptr
	uninitialize  uintptr
}

// resolveSymbols resolves every required export through lookup. Resolution
// is atomic: the first missing export fails the whole load and no partially
// populated table escapes.
func resolveSymbols(lookup func(name string) (uintptr, error)) (symtab, error) {
	var t symtab
	for _, sym := range []struct {
		name string
		dst  *uintptr
	}{
		{"Initialize", &t.initialize},
		{"SetLogLevel", &t.setLogLevel},
		{"SendCommand", &t.sendCommand},
		{"SetCallbackEx", &t.setCallbackEx},
		{"FreeMemory", &t.freeMemory},
		{"UnInitialize", &t.uninitialize},
	} {
		p, err := lookup(sym.name)
		if err != nil {
			return symtab{}, domain.NewError(domain.ErrLoading, sym.name, "", err.Error())
		}
		*sym.dst = p
	}
	return t, nil
}
