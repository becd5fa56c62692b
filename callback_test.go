package gitcore

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTrampoline builds a trampoline without a native closure behind it, so
// dispatch and finish can be driven directly.
func testTrampoline(kinds []ctype, fn hostCallback, released *int) *trampoline {
	return &trampoline{
		kinds:     kinds,
		fn:        fn,
		releaseFn: func() { *released++ },
	}
}

// invoke simulates one native callback invocation and returns the
// continuation code the native side would observe.
func (t *trampoline) invokeForTest(args ...unsafe.Pointer) int32 {
	var ret uint64
	var argvPtr unsafe.Pointer
	if len(args) > 0 {
		argvPtr = unsafe.Pointer(&args[0])
	}
	t.dispatch(unsafe.Pointer(&ret), argvPtr)
	if ptrSize == 8 {
		return int32(*(*int64)(unsafe.Pointer(&ret)))
	}
	return *(*int32)(unsafe.Pointer(&ret))
}

func TestTrampolineDeliversArgsInOrder(t *testing.T) {
	var got []int32
	released := 0
	tr := testTrampoline([]ctype{ctInt32}, func(a *callbackArgs) error {
		got = append(got, a.int32v(0))
		return nil
	}, &released)

	for i := int32(0); i < 5; i++ {
		v := i
		code := tr.invokeForTest(unsafe.Pointer(&v))
		assert.Equal(t, int32(0), code)
	}
	tr.release()

	assert.Equal(t, []int32{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 1, released)
	assert.NoError(t, tr.finish(0, "test"))
}

func TestTrampolinePointerArg(t *testing.T) {
	payload := [3]byte{'h', 'i', 0}
	want := unsafe.Pointer(&payload)
	released := 0
	tr := testTrampoline([]ctype{ctPointer}, func(a *callbackArgs) error {
		assert.Equal(t, want, a.pointer(0))
		assert.Equal(t, "hi", DecodeCStringN(a.pointer(0), 2))
		return nil
	}, &released)
	defer tr.release()

	arg := want
	code := tr.invokeForTest(unsafe.Pointer(&arg))
	assert.Equal(t, int32(0), code)
}

func TestTrampolineHostErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	released := 0
	tr := testTrampoline(nil, func(*callbackArgs) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}, &released)
	defer tr.release()

	var codes []int32
	for i := 0; i < 5; i++ {
		codes = append(codes, tr.invokeForTest())
	}
	// Entries after the failing one never reach the host callback.
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int32{0, 0, codeUser, codeUser, codeUser}, codes)

	// The recorded host error wins over the native abort code.
	err := tr.finish(codeUser, "test")
	assert.ErrorIs(t, err, boom)
}

func TestTrampolineIterationStopIsClean(t *testing.T) {
	calls := 0
	released := 0
	tr := testTrampoline(nil, func(*callbackArgs) error {
		calls++
		if calls == 2 {
			return ErrIterationStop
		}
		return nil
	}, &released)

	assert.Equal(t, int32(0), tr.invokeForTest())
	assert.Equal(t, int32(codeUser), tr.invokeForTest())
	tr.release()

	require.NoError(t, tr.finish(codeUser, "test"))
	assert.Equal(t, 1, released)
}

func TestTrampolinePanicIsContained(t *testing.T) {
	released := 0
	tr := testTrampoline(nil, func(*callbackArgs) error {
		panic("callback blew up")
	}, &released)
	defer tr.release()

	// A panicking callback must not unwind into the caller; it turns into
	// the abort code and an error from finish.
	code := tr.invokeForTest()
	assert.Equal(t, int32(codeUser), code)

	err := tr.finish(codeUser, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback blew up")
}

func TestTrampolineReleaseIsIdempotent(t *testing.T) {
	released := 0
	tr := testTrampoline(nil, func(*callbackArgs) error { return nil }, &released)
	tr.release()
	tr.release()
	assert.Equal(t, 1, released)
}

func TestTrampolineFinishSurfacesNativeFailure(t *testing.T) {
	released := 0
	tr := testTrampoline(nil, func(*callbackArgs) error { return nil }, &released)
	defer tr.release()

	// Native failure with no host error and no stop request passes through
	// the usual result gate.
	err := tr.finish(codeNotFound, "git_tag_foreach")
	var nce *NativeCallError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, codeNotFound, nce.Code)
	assert.Equal(t, "not found", nce.Class)
	assert.Equal(t, "git_tag_foreach", nce.Context)
}
