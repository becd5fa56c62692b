package gitcore

import (
	"sync"
	"unsafe"
)

// Memory primitives shared by every wrapper. All storage handed to a native
// call lives on the C heap: the Go collector can neither move nor reclaim it
// while the call runs, which is the load-bearing guarantee of the whole
// binding. Raw reads at computed offsets are plain unsafe arithmetic and
// never allocate.

// Buffer is a zero-initialized C-heap byte buffer.
type Buffer struct {
	p    unsafe.Pointer
	n    int
	once sync.Once
}

// NewBuffer allocates a zeroed buffer of n bytes.
func NewBuffer(n int) *Buffer {
	if n <= 0 {
		n = 1
	}
	p := cCalloc(uintptr(n), 1)
	if p == nil {
		panic("gitcore: out of memory")
	}
	return &Buffer{p: p, n: n}
}

// Addr returns the address of the first byte. Valid until Free.
func (b *Buffer) Addr() unsafe.Pointer { return b.p }

// Len returns the allocated size.
func (b *Buffer) Len() int { return b.n }

// Bytes copies the buffer contents into Go memory.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.n)
	copy(out, unsafe.Slice((*byte)(b.p), b.n))
	return out
}

// SetBytes copies src into the buffer; src must fit.
func (b *Buffer) SetBytes(src []byte) {
	if len(src) > b.n {
		panic("gitcore: buffer overflow")
	}
	copy(unsafe.Slice((*byte)(b.p), b.n), src)
}

// Free releases the buffer. Safe to call more than once.
func (b *Buffer) Free() {
	b.once.Do(func() {
		cFree(b.p)
		b.p = nil
	})
}

// OutParam is a pointer-sized, zero-initialized slot passed by address to a
// native call that writes a pointer into it. Zeroing matters: on failure
// paths the native side leaves the slot untouched, and stale bytes must not
// read back as a live address.
type OutParam struct {
	buf *Buffer
}

// NewOutParam allocates a zeroed pointer-sized out-parameter.
func NewOutParam() *OutParam {
	return &OutParam{buf: NewBuffer(int(ptrSize))}
}

// Addr is the address the native call writes through (the T** argument).
func (o *OutParam) Addr() unsafe.Pointer { return o.buf.Addr() }

// Pointer reads back the pointer a successful call stored.
func (o *OutParam) Pointer() unsafe.Pointer {
	return *(*unsafe.Pointer)(o.buf.Addr())
}

// Free releases the slot. Idempotent.
func (o *OutParam) Free() { o.buf.Free() }

// CString is a NUL-terminated C-heap copy of a Go string.
type CString struct {
	p    unsafe.Pointer
	once sync.Once
}

// EncodeCString copies s to the C heap with a trailing NUL.
func EncodeCString(s string) *CString {
	return &CString{p: cCString(s)}
}

// Ptr returns the char* address. Valid until Free.
func (c *CString) Ptr() unsafe.Pointer { return c.p }

// Free releases the copy. Idempotent.
func (c *CString) Free() {
	c.once.Do(func() {
		cFree(c.p)
		c.p = nil
	})
}

// DecodeCString copies a NUL-terminated native string into a Go string.
// A NULL pointer decodes to "" rather than failing; the native API uses
// NULL for optional strings throughout.
func DecodeCString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return cGoString(p)
}

// DecodeCStringN copies exactly n bytes.
func DecodeCStringN(p unsafe.Pointer, n int) string {
	if p == nil || n <= 0 {
		return ""
	}
	return cGoStringN(p, n)
}

// ---- raw field reads ----
//
// Offsets come from the layout engine; width of pointer reads follows the
// host pointer size.

func peekPointer(p unsafe.Pointer, off uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(p, off))
}

func peekInt32(p unsafe.Pointer, off uintptr) int32 {
	return *(*int32)(unsafe.Add(p, off))
}

func peekUint32(p unsafe.Pointer, off uintptr) uint32 {
	return *(*uint32)(unsafe.Add(p, off))
}

func peekUint16(p unsafe.Pointer, off uintptr) uint16 {
	return *(*uint16)(unsafe.Add(p, off))
}

func peekInt64(p unsafe.Pointer, off uintptr) int64 {
	return *(*int64)(unsafe.Add(p, off))
}

func peekUint64(p unsafe.Pointer, off uintptr) uint64 {
	return *(*uint64)(unsafe.Add(p, off))
}

func peekByte(p unsafe.Pointer, off uintptr) byte {
	return *(*byte)(unsafe.Add(p, off))
}

// peekSize reads a size_t-width field.
func peekSize(p unsafe.Pointer, off uintptr) uint64 {
	if ptrSize == 8 {
		return peekUint64(p, off)
	}
	return uint64(peekUint32(p, off))
}

// peekBytes copies n bytes starting at off into Go memory.
func peekBytes(p unsafe.Pointer, off, n uintptr) []byte {
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Add(p, off)), n))
	return out
}
