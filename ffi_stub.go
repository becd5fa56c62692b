//go:build !linux || !cgo

package gitcore

import "unsafe"

// Non-libffi build: library loading always fails, and the memory primitives
// trap if something reaches them anyway. Keeps the package compiling on
// platforms the dynamic loader does not support yet.

const errUnsupported = "gitcore: native interop requires a cgo/libffi build (linux)"

func dlOpen(path string) (unsafe.Pointer, error) {
	return nil, &LoadError{Msg: "unsupported platform: " + path}
}

func dlClose(h unsafe.Pointer) error { return nil }

func dlSym(h unsafe.Pointer, name string) (unsafe.Pointer, error) {
	return nil, &LoadError{Msg: "unsupported platform: " + name}
}

func cMalloc(n uintptr) unsafe.Pointer           { panic(errUnsupported) }
func cCalloc(count, size uintptr) unsafe.Pointer { panic(errUnsupported) }
func cFree(p unsafe.Pointer)                     {}
func cMemcpy(dst, src unsafe.Pointer, n uintptr) { panic(errUnsupported) }

func cGoString(p unsafe.Pointer) string         { panic(errUnsupported) }
func cGoStringN(p unsafe.Pointer, n int) string { panic(errUnsupported) }
func cCString(s string) unsafe.Pointer          { panic(errUnsupported) }

func newCIF(ret ctype, params []ctype) (cif, typesVec unsafe.Pointer, err error) {
	return nil, nil, &LoadError{Msg: "unsupported platform"}
}

func freeCIF(cif, typesVec unsafe.Pointer) {}

func (f *nativeFunc) invoke(args []callArg) (ret uint64, retPtr unsafe.Pointer) {
	panic(errUnsupported)
}

func closureNew(cif unsafe.Pointer, user uintptr) (closure, entry unsafe.Pointer, err error) {
	return nil, nil, &LoadError{Msg: "unsupported platform"}
}

func closureFree(closure unsafe.Pointer) {}
