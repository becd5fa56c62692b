package gitcore

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/BurntSushi/toml"
)

// ctype enumerates the ABI kinds the binding marshals. Aggregates are always
// passed and returned by pointer, so the set stays small.
type ctype int

const (
	ctVoid ctype = iota
	ctInt32
	ctUint32
	ctInt64
	ctSize
	ctPointer
)

// callArg is one marshalled native argument.
type callArg struct {
	kind ctype
	ptr  unsafe.Pointer
	i64  int64
}

func ptrArg(p unsafe.Pointer) callArg  { return callArg{kind: ctPointer, ptr: p} }
func int32Arg(v int32) callArg         { return callArg{kind: ctInt32, i64: int64(v)} }
func uint32Arg(v uint32) callArg       { return callArg{kind: ctUint32, i64: int64(v)} }
func int64Arg(v int64) callArg         { return callArg{kind: ctInt64, i64: v} }
func sizeArg(v uint64) callArg         { return callArg{kind: ctSize, i64: int64(v)} }

// nativeFunc is one bound symbol: its resolved address plus a libffi call
// interface prepped once at load time. The cif and typesVec live on the C
// heap and are freed on Unload.
type nativeFunc struct {
	name     string
	ret      ctype
	params   []ctype
	sym      unsafe.Pointer
	cif      unsafe.Pointer
	typesVec unsafe.Pointer
}

func (f *nativeFunc) callInt(args ...callArg) int32 {
	r, _ := f.invoke(args)
	return int32(int64(r))
}

func (f *nativeFunc) callUint32(args ...callArg) uint32 {
	r, _ := f.invoke(args)
	return uint32(r)
}

func (f *nativeFunc) callInt64(args ...callArg) int64 {
	r, _ := f.invoke(args)
	return int64(r)
}

func (f *nativeFunc) callSize(args ...callArg) uint64 {
	r, _ := f.invoke(args)
	return r
}

func (f *nativeFunc) callPtr(args ...callArg) unsafe.Pointer {
	_, p := f.invoke(args)
	return p
}

func (f *nativeFunc) callVoid(args ...callArg) {
	f.invoke(args)
}

// Lib is the process-wide handle to a loaded libgit2 plus its bound symbol
// table. Obtain it with Load or Get; never construct one directly.
type Lib struct {
	path    string
	handle  unsafe.Pointer
	funcs   map[string]*nativeFunc
	oidSize int
}

var (
	libMu  sync.Mutex
	loaded *Lib
)

// LoadOptions controls how the shared library is located. The zero value
// uses the environment and the per-OS soname candidates.
type LoadOptions struct {
	// LibraryPath, when set, is tried verbatim and nothing else.
	LibraryPath string
	// ConfigFile overrides the default gitcore.toml location.
	ConfigFile string
}

// fileConfig is the on-disk override read from gitcore.toml.
type fileConfig struct {
	Library string `toml:"library"`
}

// EnvLibraryPath names the environment variable holding an explicit shared
// library path.
const EnvLibraryPath = "GITCORE_LIBGIT2"

// EnvConfigFile names the environment variable holding the gitcore.toml path.
const EnvConfigFile = "GITCORE_CONFIG"

// libraryCandidates returns the paths to try, in order: explicit config,
// environment override, gitcore.toml override, then per-OS sonames resolved
// by the system loader.
func libraryCandidates(opts LoadOptions) ([]string, error) {
	if opts.LibraryPath != "" {
		return []string{opts.LibraryPath}, nil
	}
	if p := os.Getenv(EnvLibraryPath); p != "" {
		return []string{p}, nil
	}
	if p, err := configFileLibrary(opts.ConfigFile); err != nil {
		return nil, err
	} else if p != "" {
		return []string{p}, nil
	}
	return sonameCandidates(runtime.GOOS), nil
}

func configFileLibrary(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		path = filepath.Join(home, ".config", "gitcore", "gitcore.toml")
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return "", &LoadError{Msg: fmt.Sprintf("config file %s", path), Err: err}
	}
	return fc.Library, nil
}

func sonameCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libgit2.dylib", "libgit2.1.9.dylib", "libgit2.1.8.dylib"}
	case "windows":
		return []string{"git2.dll", "libgit2.dll"}
	default:
		return []string{
			"libgit2.so.1.9", "libgit2.so.1.8", "libgit2.so.1.7",
			"libgit2.so.1.6", "libgit2.so.1.5", "libgit2.so",
		}
	}
}

// Load resolves, opens and binds the native library. A second Load while
// already loaded is a no-op returning the existing table. Load and Unload
// are not meant to race with in-flight native calls; callers serialize that.
func Load() (*Lib, error) { return LoadWith(LoadOptions{}) }

// LoadWith is Load with explicit LoadOptions.
func LoadWith(opts LoadOptions) (*Lib, error) {
	libMu.Lock()
	defer libMu.Unlock()
	if loaded != nil {
		return loaded, nil
	}

	candidates, err := libraryCandidates(opts)
	if err != nil {
		return nil, err
	}
	var handle unsafe.Pointer
	var opened string
	var firstErr error
	for _, cand := range candidates {
		h, err := dlOpen(cand)
		if err == nil {
			handle, opened = h, cand
			break
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if handle == nil {
		return nil, &LoadError{Msg: fmt.Sprintf("no loadable library among %v", candidates), Err: firstErr}
	}

	l := &Lib{
		path:    opened,
		handle:  handle,
		funcs:   make(map[string]*nativeFunc, len(gitSymbols)),
		oidSize: OidSHA1Size,
	}
	// Bind every required symbol up front; a missing symbol is fatal and must
	// not leak the partially built table.
	if err := l.bindAll(); err != nil {
		l.releaseTable()
		dlClose(handle)
		return nil, err
	}

	l.fn("git_libgit2_init").callInt()
	loaded = l
	return l, nil
}

func (l *Lib) bindAll() error {
	for _, spec := range gitSymbols {
		sym, err := dlSym(l.handle, spec.name)
		if err != nil || sym == nil {
			return &LoadError{Msg: "missing required symbol " + spec.name, Err: err}
		}
		cif, vec, err := newCIF(spec.ret, spec.params)
		if err != nil {
			return &LoadError{Msg: "binding " + spec.name, Err: err}
		}
		l.funcs[spec.name] = &nativeFunc{
			name:     spec.name,
			ret:      spec.ret,
			params:   spec.params,
			sym:      sym,
			cif:      cif,
			typesVec: vec,
		}
	}
	return nil
}

// releaseTable frees all prepped call interfaces, in no particular order.
func (l *Lib) releaseTable() {
	for _, f := range l.funcs {
		freeCIF(f.cif, f.typesVec)
		f.cif, f.typesVec, f.sym = nil, nil, nil
	}
	l.funcs = nil
}

// Get returns the loaded table, or UninitializedError if Load has not
// succeeded (or Unload ran since).
func Get() (*Lib, error) {
	libMu.Lock()
	defer libMu.Unlock()
	if loaded == nil {
		return nil, &UninitializedError{}
	}
	return loaded, nil
}

// Unload shuts the native library down and releases the handle. After
// Unload, Get fails until the next Load. Unloading when nothing is loaded
// is a no-op.
func Unload() error {
	libMu.Lock()
	defer libMu.Unlock()
	if loaded == nil {
		return nil
	}
	l := loaded
	loaded = nil
	l.fn("git_libgit2_shutdown").callInt()
	l.releaseTable()
	err := dlClose(l.handle)
	l.handle = nil
	return err
}

// Path reports the path or soname the library was opened from.
func (l *Lib) Path() string { return l.path }

// OidSize reports the byte width of object ids for this build of the
// library (20 for SHA-1; a SHA-256 build would report 32).
func (l *Lib) OidSize() int { return l.oidSize }

// Version reports the native library version triple.
func (l *Lib) Version() (major, minor, rev int) {
	a := NewBuffer(4)
	b := NewBuffer(4)
	c := NewBuffer(4)
	defer a.Free()
	defer b.Free()
	defer c.Free()
	l.fn("git_libgit2_version").callInt(ptrArg(a.Addr()), ptrArg(b.Addr()), ptrArg(c.Addr()))
	return int(peekInt32(a.Addr(), 0)), int(peekInt32(b.Addr(), 0)), int(peekInt32(c.Addr(), 0))
}

// fn returns the bound function for name. The symbol table is fixed at
// compile time, so a miss is a programming error, not a runtime condition.
func (l *Lib) fn(name string) *nativeFunc {
	f, ok := l.funcs[name]
	if !ok {
		panic("gitcore: symbol not in table: " + name)
	}
	return f
}

// releaser adapts a void(T*) native release function for Handle.
func (l *Lib) releaser(name string) func(unsafe.Pointer) {
	f := l.fn(name)
	return func(p unsafe.Pointer) { f.callVoid(ptrArg(p)) }
}
