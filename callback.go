package gitcore

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"
)

// Callback bridge. A foreach-style native call receives a function pointer
// and invokes it once per entry; the trampoline built here is that function
// pointer. Its lifetime is strictly the one native call that consumes it:
// acquire immediately before, release on every exit path immediately after.
// A leaked trampoline is a native-level leak with no host-visible handle, so
// release is guarded the same way handle disposal is.
//
// The native side must never see a Go panic. dispatch catches anything the
// host callback raises, converts it into the library's user-abort code to
// stop the iteration, and finish re-surfaces it once control is back on the
// host side of the boundary.

// callbackArgs exposes the native arguments of one callback invocation.
// Accessor index and kind must match the trampoline's declared parameters.
type callbackArgs struct {
	kinds []ctype
	argv  []unsafe.Pointer // each entry points at one argument's storage
}

func (a *callbackArgs) pointer(i int) unsafe.Pointer {
	return *(*unsafe.Pointer)(a.argv[i])
}

func (a *callbackArgs) int32v(i int) int32 {
	return *(*int32)(a.argv[i])
}

func (a *callbackArgs) int64v(i int) int64 {
	return *(*int64)(a.argv[i])
}

// hostCallback consumes one decoded invocation. Returning nil continues the
// iteration; ErrIterationStop stops it cleanly; any other error stops it and
// surfaces from the driving call.
type hostCallback func(args *callbackArgs) error

type trampoline struct {
	kinds []ctype
	fn    hostCallback

	closure  unsafe.Pointer
	entry    unsafe.Pointer
	cif      unsafe.Pointer
	typesVec unsafe.Pointer
	user     cgo.Handle

	releaseOnce sync.Once
	releaseFn   func() // overridable by tests

	err     error
	stopped bool
}

// newTrampoline preps a native-callable closure with the int(...) signature
// the library documents for its foreach slots.
func newTrampoline(kinds []ctype, fn hostCallback) (*trampoline, error) {
	cif, vec, err := newCIF(ctInt32, kinds)
	if err != nil {
		return nil, err
	}
	t := &trampoline{kinds: kinds, fn: fn, cif: cif, typesVec: vec}
	t.user = cgo.NewHandle(t)
	closure, entry, err := closureNew(cif, uintptr(t.user))
	if err != nil {
		t.user.Delete()
		freeCIF(cif, vec)
		return nil, err
	}
	t.closure = closure
	t.entry = entry
	t.releaseFn = func() {
		closureFree(t.closure)
		freeCIF(t.cif, t.typesVec)
		t.user.Delete()
		t.closure, t.cif, t.typesVec = nil, nil, nil
	}
	return t, nil
}

func trampolineFromHandle(user uintptr) *trampoline {
	t, _ := cgo.Handle(user).Value().(*trampoline)
	return t
}

// release frees the closure exactly once. Called via defer by every driver,
// so the trampoline is gone whether the native call succeeded, failed, or a
// callback error unwound it.
func (t *trampoline) release() {
	t.releaseOnce.Do(func() {
		if t.releaseFn != nil {
			t.releaseFn()
		}
	})
}

// dispatch is the Go side of one native invocation: decode, call, translate
// the result into the native continuation code (0 continues, user-abort
// stops).
func (t *trampoline) dispatch(ret unsafe.Pointer, argv unsafe.Pointer) {
	code := int32(codeUser)
	defer func() { pokeCallbackRet(ret, code) }()

	if t.err != nil || t.stopped {
		// Already unwinding; keep telling the native side to stop.
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("gitcore: panic in iteration callback: %v", r)
			code = codeUser
		}
	}()

	args := &callbackArgs{
		kinds: t.kinds,
		argv:  unsafe.Slice((*unsafe.Pointer)(argv), len(t.kinds)),
	}
	switch err := t.fn(args); {
	case err == nil:
		code = 0
	case err == ErrIterationStop:
		t.stopped = true
		code = codeUser
	default:
		t.err = err
		code = codeUser
	}
}

// finish folds the driving call's return code together with whatever the
// callback recorded. Order matters: a callback error beats the native code
// (the native side only saw our stop request), and a clean host stop turns
// the user-abort code into success.
func (t *trampoline) finish(rc int32, context string) error {
	if t.err != nil {
		return t.err
	}
	if rc == codeUser && t.stopped {
		return nil
	}
	return CheckResult(int(rc), context)
}

// pokeCallbackRet stores the callback's integer result widened to ffi_arg,
// which is pointer-sized.
func pokeCallbackRet(ret unsafe.Pointer, code int32) {
	if ret == nil {
		return
	}
	if ptrSize == 8 {
		*(*int64)(ret) = int64(code)
	} else {
		*(*int32)(ret) = code
	}
}
