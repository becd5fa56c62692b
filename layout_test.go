package gitcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Expected sizes below are the ones the native headers produce; the 64-bit
// numbers match a stock x86-64 build of the library.

func TestLayoutSizesMatrix(t *testing.T) {
	cases := []struct {
		name    string
		build   func(w uintptr) *structLayout
		size64  uintptr
		size32  uintptr
		align64 uintptr
		align32 uintptr
	}{
		{"git_error", errorLayoutAt, 16, 8, 8, 4},
		{"git_time", timeLayoutAt, 16, 16, 8, 4},
		{"git_signature", signatureLayoutAt, 32, 24, 8, 4},
		{"git_diff_file", diffFileLayoutAt, 48, 40, 8, 4},
		{"git_diff_delta", diffDeltaLayoutAt, 112, 92, 8, 4},
		{"git_config_entry", configEntryLayoutAt, 56, 32, 8, 4},
		{"git_status_entry", statusEntryLayoutAt, 24, 12, 8, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l64 := tc.build(8)
			assert.Equal(t, tc.size64, l64.Size(), "64-bit size")
			assert.Equal(t, tc.align64, l64.Align(), "64-bit align")

			l32 := tc.build(4)
			assert.Equal(t, tc.size32, l32.Size(), "32-bit size")
			assert.Equal(t, tc.align32, l32.Align(), "32-bit align")
		})
	}
}

func TestLayoutPointerAfterByteArray(t *testing.T) {
	// The pointer following a 20-byte id array must land on the next
	// pointer-width boundary, not at offset 20.
	l64 := diffFileLayoutAt(8)
	assert.Equal(t, uintptr(24), l64.offset("path"))

	l32 := diffFileLayoutAt(4)
	assert.Equal(t, uintptr(20), l32.offset("path"))
}

func TestLayoutU64CappedAlignmentOn32Bit(t *testing.T) {
	// An 8-byte scalar on a 4-byte pointer width aligns to 4, the i386 rule.
	l := newLayout(4,
		scalarField("a", 4),
		scalarField("b", 8),
	)
	assert.Equal(t, uintptr(4), l.offset("b"))
	assert.Equal(t, uintptr(12), l.Size())
}

func TestLayoutEmbeddedStructAlignment(t *testing.T) {
	inner := newLayout(8, scalarField("x", 8), scalarField("y", 1))
	assert.Equal(t, uintptr(16), inner.Size())

	outer := newLayout(8,
		scalarField("tag", 1),
		structField("inner", inner),
	)
	assert.Equal(t, uintptr(8), outer.offset("inner"))
	assert.Equal(t, uintptr(24), outer.Size())
}

func TestLayoutOffsetsAreMonotonic(t *testing.T) {
	for _, w := range []uintptr{4, 8} {
		l := diffDeltaLayoutAt(w)
		var prev uintptr
		for _, f := range l.fields {
			off := l.offset(f.name)
			if off < prev {
				t.Fatalf("width %d: field %s at %d before previous end %d", w, f.name, off, prev)
			}
			size, _ := f.sizeAlign(w)
			prev = off + size
		}
		if l.Size() < prev {
			t.Fatalf("width %d: total %d smaller than last field end %d", w, l.Size(), prev)
		}
	}
}

func TestLayoutUnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown field")
		}
	}()
	errorLayoutAt(8).offset("nope")
}
