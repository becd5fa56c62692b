package gitcore

import (
	"sync"
	"unsafe"
)

// Handle wraps a live native address together with its release
// responsibility. Owned handles call their native release function exactly
// once; borrowed handles belong to a parent object (a tree entry inside a
// still-open tree, a status entry inside a status list) and never release
// anything themselves.
type Handle struct {
	what     string
	ptr      unsafe.Pointer
	borrowed bool
	release  func(unsafe.Pointer)

	mu    sync.Mutex
	once  sync.Once
	freed bool
}

// newOwnedHandle takes sole release responsibility for ptr.
func newOwnedHandle(what string, ptr unsafe.Pointer, release func(unsafe.Pointer)) *Handle {
	return &Handle{what: what, ptr: ptr, release: release}
}

// newBorrowedHandle wraps ptr without taking ownership. Free marks the
// handle unusable but never reaches the native side.
func newBorrowedHandle(what string, ptr unsafe.Pointer) *Handle {
	return &Handle{what: what, ptr: ptr, borrowed: true}
}

// Pointer returns the native address, or UseAfterCloseError once freed.
func (h *Handle) Pointer() (unsafe.Pointer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.freed {
		return nil, &UseAfterCloseError{Context: h.what}
	}
	return h.ptr, nil
}

// Borrowed reports whether this handle's lifetime belongs to a parent.
func (h *Handle) Borrowed() bool { return h.borrowed }

// Freed reports whether Free has run.
func (h *Handle) Freed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.freed
}

// Free releases the native object (owned handles only) and marks the handle
// terminal. Calling it again is a no-op; the native release function runs at
// most once.
func (h *Handle) Free() {
	h.once.Do(func() {
		h.mu.Lock()
		ptr := h.ptr
		h.freed = true
		h.ptr = nil
		h.mu.Unlock()
		if !h.borrowed && h.release != nil && ptr != nil {
			h.release(ptr)
		}
	})
}
