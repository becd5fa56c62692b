//go:build linux
// +build linux

package gitcore

/*
#define _GNU_SOURCE
#cgo LDFLAGS: -ldl
#cgo pkg-config: libffi
#include <ffi.h>
#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>
#include <stdint.h> // uintptr_t

static void* gg_dlopen(const char* path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}
static const char* gg_dlerror(void) {
	return dlerror();
}
static int gg_dlclose(void* h) {
	return dlclose(h);
}

// Clear dlerror, call dlsym, and return the error (if any) alongside the symbol.
static void* gg_dlsym_clear(void* h, const char* name, char** err) {
	dlerror(); // clear
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { if (err) *err = e; return NULL; }
	if (err) *err = NULL;
	return p;
}

// Allocate a cif on the C heap (so it outlives the Go stack frame).
static ffi_cif* gg_alloc_cif(void) {
	return (ffi_cif*)malloc(sizeof(ffi_cif));
}

// ffi_call wrapper: accept a generic void* fn and a void** argv vector.
// This avoids cgo's function-pointer type constraints at the call site.
static void gg_ffi_call(ffi_cif* cif, void* fn, void* rvalue, void** avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}

// -------- libffi closure helpers (callback trampolines) ----------
static void* gg_closure_alloc(void** executable) {
	return ffi_closure_alloc(sizeof(ffi_closure), executable);
}
static void gg_closure_free(void* closure) {
	ffi_closure_free((ffi_closure*)closure);
}

// Forward decl to Go; the C thunk forwards into it with an integer handle.
extern void gitcoreClosureDispatch(ffi_cif*, void*, void**, uintptr_t);
static void gg_closure_thunk(ffi_cif* cif, void* ret, void** args, void* user) {
	gitcoreClosureDispatch(cif, ret, args, (uintptr_t)user);
}
static int gg_prep_closure(void* closure, ffi_cif* cif, void* userdata, void* executable) {
	return ffi_prep_closure_loc((ffi_closure*)closure, cif,
		gg_closure_thunk, userdata, executable);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

////////////////////////////////////////////////////////////////////////////////
// Centralized cgo helpers. Every C reference in the package lives in this
// file; the rest of the package works with unsafe.Pointer only, so that the
// non-cgo stub can satisfy the same surface.
////////////////////////////////////////////////////////////////////////////////

// dlerr returns the last dlerror as a Go string, or a fallback label.
func dlerr() string {
	errC := C.gg_dlerror()
	if errC != nil {
		return C.GoString(errC)
	}
	return "unknown dlerror"
}

func dlOpen(path string) (unsafe.Pointer, error) {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	h := C.gg_dlopen(cs)
	if h == nil {
		return nil, fmt.Errorf("dlopen(%q) failed: %s", path, dlerr())
	}
	return unsafe.Pointer(h), nil
}

func dlClose(h unsafe.Pointer) error {
	if int(C.gg_dlclose(h)) != 0 {
		return fmt.Errorf("dlclose failed: %s", dlerr())
	}
	return nil
}

func dlSym(h unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	var cerr *C.char
	p := C.gg_dlsym_clear(h, cs, &cerr)
	if cerr != nil {
		return nil, fmt.Errorf("dlsym(%q) failed: %s", name, C.GoString(cerr))
	}
	return p, nil
}

// memory
func cMalloc(n uintptr) unsafe.Pointer           { return C.malloc(C.size_t(n)) }
func cCalloc(count, size uintptr) unsafe.Pointer { return C.calloc(C.size_t(count), C.size_t(size)) }
func cFree(p unsafe.Pointer)                     { C.free(p) }
func cMemcpy(dst, src unsafe.Pointer, n uintptr) { C.memcpy(dst, src, C.size_t(n)) }

// strings
func cGoString(p unsafe.Pointer) string { return C.GoString((*C.char)(p)) }
func cGoStringN(p unsafe.Pointer, n int) string {
	return C.GoStringN((*C.char)(p), C.int(n))
}
func cCString(s string) unsafe.Pointer { return unsafe.Pointer(C.CString(s)) }

// ffiTypeFor maps an abi kind to the corresponding builtin libffi type.
func ffiTypeFor(k ctype) (*C.ffi_type, error) {
	switch k {
	case ctVoid:
		return &C.ffi_type_void, nil
	case ctInt32:
		return &C.ffi_type_sint32, nil
	case ctUint32:
		return &C.ffi_type_uint32, nil
	case ctInt64:
		return &C.ffi_type_sint64, nil
	case ctSize:
		if ptrSize == 8 {
			return &C.ffi_type_uint64, nil
		}
		return &C.ffi_type_uint32, nil
	case ctPointer:
		return &C.ffi_type_pointer, nil
	default:
		return nil, fmt.Errorf("unhandled abi kind %d", int(k))
	}
}

// newCIF allocates a C-heap cif and a C-heap ffi_type** argv vector.
// The caller owns both and releases them through freeCIF.
func newCIF(ret ctype, params []ctype) (cif, typesVec unsafe.Pointer, err error) {
	rty, err := ffiTypeFor(ret)
	if err != nil {
		return nil, nil, err
	}
	n := len(params)
	var typesPtr **C.ffi_type
	if n > 0 {
		bytes := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(uintptr(0))))
		if bytes == nil {
			return nil, nil, fmt.Errorf("ffi_prep_cif: OOM")
		}
		types := unsafe.Slice((**C.ffi_type)(bytes), n)
		for i, p := range params {
			pt, err := ffiTypeFor(p)
			if err != nil {
				C.free(bytes)
				return nil, nil, fmt.Errorf("param[%d]: %w", i, err)
			}
			types[i] = pt
		}
		typesPtr = (**C.ffi_type)(bytes) // libffi reads it on every call
	}
	c := C.gg_alloc_cif()
	if c == nil {
		if typesPtr != nil {
			C.free(unsafe.Pointer(typesPtr))
		}
		return nil, nil, fmt.Errorf("ffi_prep_cif: OOM")
	}
	st := C.ffi_prep_cif(c, C.FFI_DEFAULT_ABI, C.uint(n), rty, typesPtr)
	if st != C.FFI_OK {
		C.free(unsafe.Pointer(c))
		if typesPtr != nil {
			C.free(unsafe.Pointer(typesPtr))
		}
		return nil, nil, fmt.Errorf("ffi_prep_cif failed: %d", int(st))
	}
	return unsafe.Pointer(c), unsafe.Pointer(typesPtr), nil
}

func freeCIF(cif, typesVec unsafe.Pointer) {
	if typesVec != nil {
		C.free(typesVec)
	}
	if cif != nil {
		C.free(cif)
	}
}

// invoke performs the native call. Every argument slot and the return slot
// live on the C heap for the duration of the call, so nothing the Go runtime
// may move is ever visible to the native side.
func (f *nativeFunc) invoke(args []callArg) (ret uint64, retPtr unsafe.Pointer) {
	n := len(args)
	var argv unsafe.Pointer
	var slots []unsafe.Pointer
	if n > 0 {
		argv = C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(uintptr(0))))
		if argv == nil {
			panic("gitcore: OOM marshalling native call")
		}
		vec := unsafe.Slice((*unsafe.Pointer)(argv), n)
		slots = make([]unsafe.Pointer, n)
		for i, a := range args {
			slot := C.calloc(1, 8)
			if slot == nil {
				panic("gitcore: OOM marshalling native call")
			}
			switch a.kind {
			case ctPointer:
				*(*unsafe.Pointer)(slot) = a.ptr
			case ctInt32:
				*(*int32)(slot) = int32(a.i64)
			case ctUint32:
				*(*uint32)(slot) = uint32(a.i64)
			case ctInt64:
				*(*int64)(slot) = a.i64
			case ctSize:
				*(*uint64)(slot) = uint64(a.i64)
			}
			slots[i] = slot
			vec[i] = slot
		}
	}
	rbuf := C.calloc(1, 8)
	if rbuf == nil {
		panic("gitcore: OOM marshalling native call")
	}
	C.gg_ffi_call((*C.ffi_cif)(f.cif), f.sym, rbuf, (*unsafe.Pointer)(argv))

	switch f.ret {
	case ctPointer:
		retPtr = *(*unsafe.Pointer)(rbuf)
	case ctVoid:
		// nothing
	default:
		// Integral returns narrower than ffi_arg come back widened; read the
		// full slot and let the typed call helpers truncate.
		ret = *(*uint64)(rbuf)
	}
	C.free(rbuf)
	for _, s := range slots {
		C.free(s)
	}
	if argv != nil {
		C.free(argv)
	}
	return ret, retPtr
}

// closureNew allocates a libffi closure bound to gg_closure_thunk, carrying
// user (a cgo.Handle value) through to gitcoreClosureDispatch.
func closureNew(cif unsafe.Pointer, user uintptr) (closure, entry unsafe.Pointer, err error) {
	var exec unsafe.Pointer
	cl := C.gg_closure_alloc((*unsafe.Pointer)(unsafe.Pointer(&exec)))
	if cl == nil {
		return nil, nil, fmt.Errorf("ffi_closure_alloc: OOM")
	}
	if st := C.gg_prep_closure(cl, (*C.ffi_cif)(cif), unsafe.Pointer(user), exec); st != C.FFI_OK {
		C.gg_closure_free(cl)
		return nil, nil, fmt.Errorf("ffi_prep_closure_loc failed: %d", int(st))
	}
	return cl, exec, nil
}

func closureFree(closure unsafe.Pointer) {
	if closure != nil {
		C.gg_closure_free(closure)
	}
}

//export gitcoreClosureDispatch
func gitcoreClosureDispatch(_cif *C.ffi_cif, ret unsafe.Pointer, args *unsafe.Pointer, user C.uintptr_t) {
	t := trampolineFromHandle(uintptr(user))
	if t == nil {
		return
	}
	t.dispatch(ret, unsafe.Pointer(args))
}
