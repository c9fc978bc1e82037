package domain

import (
	"unsafe"

	"github.com/rs/zerolog"
)

// FreeFunc releases one connector-allocated buffer. It reports false when
// the native FreeMemory call fails.
type FreeFunc func(unsafe.Pointer) bool

// Buffer owns one NUL-terminated buffer allocated by the native connector.
// It is handed to the user callback and returned from command submission.
//
// The associated native memory is released by Free, exactly once, no matter
// how many views were taken. Views returned by Bytes must not be used after
// Free.
type Buffer struct {
	ptr      unsafe.Pointer
	free     FreeFunc
	log      zerolog.Logger
	released bool
}

// NewBuffer wraps a connector buffer pointer. The native contract promises a
// non-nil pointer; nil is a protocol violation and surfaces as ErrInternal
// instead of a crash.
func NewBuffer(ptr unsafe.Pointer, free FreeFunc, log zerolog.Logger) (*Buffer, error) {
	if ptr == nil {
		return nil, NewError(ErrInternal, "", "", "connector returned a null pointer")
	}
	return &Buffer{ptr: ptr, free: free, log: log}, nil
}

// Len returns the length of the buffer content, excluding the terminator.
func (b *Buffer) Len() int {
	n := 0
	for p := b.ptr; *(*byte)(p) != 0; p = unsafe.Add(p, 1) {
		n++
	}
	return n
}

// Bytes returns the buffer content up to the NUL terminator without copying.
// The view is only valid until Free.
func (b *Buffer) Bytes() []byte {
	n := b.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), n)
}

// byteAt reads a single byte at a fixed offset without scanning for the
// terminator.
func (b *Buffer) byteAt(i int) byte {
	return *(*byte)(unsafe.Add(b.ptr, i))
}

// String returns the buffer content as text. The default build sanitises
// invalid UTF-8; the txcfast build trusts the connector and copies verbatim.
func (b *Buffer) String() string {
	return sanitizeText(b.Bytes())
}

// Copy returns an owned copy of the buffer content that stays valid after
// Free.
func (b *Buffer) Copy() []byte {
	src := b.Bytes()
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// Free releases the native buffer. It is idempotent; only the first call
// reaches the native deallocator. A failed native deallocation is logged as
// a warning: the condition is undocumented upstream and there is no safe way
// to react to it.
func (b *Buffer) Free() {
	if b.released {
		return
	}
	b.released = true
	if !b.free(b.ptr) {
		b.log.Warn().Msg("FreeMemory failed on a live connector buffer, this is undocumented upstream")
	}
}
