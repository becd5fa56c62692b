package gitcore

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnedHandleReleasesExactlyOnce(t *testing.T) {
	var sentinel int
	var released int
	h := newOwnedHandle("thing", unsafe.Pointer(&sentinel), func(p unsafe.Pointer) {
		released++
		assert.Equal(t, unsafe.Pointer(&sentinel), p)
	})

	p, err := h.Pointer()
	require.NoError(t, err)
	assert.Equal(t, unsafe.Pointer(&sentinel), p)
	assert.False(t, h.Freed())

	h.Free()
	h.Free()
	h.Free()
	assert.Equal(t, 1, released)
	assert.True(t, h.Freed())
}

func TestHandleUseAfterClose(t *testing.T) {
	var sentinel int
	h := newOwnedHandle("commit", unsafe.Pointer(&sentinel), func(unsafe.Pointer) {})
	h.Free()

	_, err := h.Pointer()
	var uac *UseAfterCloseError
	require.ErrorAs(t, err, &uac)
	assert.Equal(t, "commit", uac.Context)
}

func TestBorrowedHandleNeverReleases(t *testing.T) {
	var sentinel int
	h := newBorrowedHandle("tree entry", unsafe.Pointer(&sentinel))
	assert.True(t, h.Borrowed())

	h.Free()
	assert.True(t, h.Freed())
	_, err := h.Pointer()
	assert.Error(t, err)
}

func TestNilOwnedHandleFreeIsSafe(t *testing.T) {
	called := false
	h := newOwnedHandle("empty", nil, func(unsafe.Pointer) { called = true })
	h.Free()
	assert.False(t, called, "release must not run for a nil pointer")
}

func TestHandleConcurrentFree(t *testing.T) {
	var sentinel int
	var mu sync.Mutex
	released := 0
	h := newOwnedHandle("shared", unsafe.Pointer(&sentinel), func(unsafe.Pointer) {
		mu.Lock()
		released++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Free()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, released)
}
