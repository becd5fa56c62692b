//go:build linux

package gitcore

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The decoder tests build native-shaped records on the C heap using the same
// layouts the decoders read with, then verify the round trip field by field.

func pokePointer(p unsafe.Pointer, off uintptr, v unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(p, off)) = v
}

func pokeInt32(p unsafe.Pointer, off uintptr, v int32) {
	*(*int32)(unsafe.Add(p, off)) = v
}

func pokeUint32(p unsafe.Pointer, off uintptr, v uint32) {
	*(*uint32)(unsafe.Add(p, off)) = v
}

func pokeInt64(p unsafe.Pointer, off uintptr, v int64) {
	*(*int64)(unsafe.Add(p, off)) = v
}

func TestDecodeErrorRecord(t *testing.T) {
	msg := EncodeCString("reference 'refs/heads/x' not found")
	defer msg.Free()
	b := NewBuffer(int(errorLayout.Size()))
	defer b.Free()
	pokePointer(b.Addr(), errorLayout.offset("message"), msg.Ptr())
	pokeInt32(b.Addr(), errorLayout.offset("klass"), 4)

	rec, err := decodeError(b.Addr())
	require.NoError(t, err)
	assert.Equal(t, "reference 'refs/heads/x' not found", rec.Message)
	assert.Equal(t, 4, rec.Klass)
}

func TestDecodeErrorNil(t *testing.T) {
	_, err := decodeError(nil)
	var ipe *InvalidPointerError
	assert.ErrorAs(t, err, &ipe)
}

func TestDecodeSignature(t *testing.T) {
	name := EncodeCString("Ada Lovelace")
	defer name.Free()
	email := EncodeCString("ada@example.com")
	defer email.Free()

	tl := timeLayoutAt(ptrSize)
	when := signatureLayout.offset("when")
	b := NewBuffer(int(signatureLayout.Size()))
	defer b.Free()
	pokePointer(b.Addr(), signatureLayout.offset("name"), name.Ptr())
	pokePointer(b.Addr(), signatureLayout.offset("email"), email.Ptr())
	pokeInt64(b.Addr(), when+tl.offset("time"), 1700000000)
	pokeInt32(b.Addr(), when+tl.offset("offset"), -300)
	*(*byte)(unsafe.Add(b.Addr(), when+tl.offset("sign"))) = '+'

	sig, err := decodeSignature(b.Addr())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", sig.Name)
	assert.Equal(t, "ada@example.com", sig.Email)
	assert.Equal(t, int64(1700000000), sig.Time)
	assert.Equal(t, -300, sig.Offset)
	// Sign is normalized to agree with the offset.
	assert.Equal(t, byte('-'), sig.Sign)
}

func TestDecodeSignatureNegativeZeroOffset(t *testing.T) {
	tl := timeLayoutAt(ptrSize)
	when := signatureLayout.offset("when")
	b := NewBuffer(int(signatureLayout.Size()))
	defer b.Free()
	*(*byte)(unsafe.Add(b.Addr(), when+tl.offset("sign"))) = '-'

	sig, err := decodeSignature(b.Addr())
	require.NoError(t, err)
	assert.Equal(t, 0, sig.Offset)
	// -0000 is preserved; it is distinct from +0000.
	assert.Equal(t, byte('-'), sig.Sign)
}

func TestDecodeSignatureDefaultsSignToPlus(t *testing.T) {
	b := NewBuffer(int(signatureLayout.Size()))
	defer b.Free()
	sig, err := decodeSignature(b.Addr())
	require.NoError(t, err)
	assert.Equal(t, byte('+'), sig.Sign)
}

func TestDecodeConfigEntry(t *testing.T) {
	name := EncodeCString("user.name")
	defer name.Free()
	value := EncodeCString("Ada")
	defer value.Free()
	backend := EncodeCString("file")
	defer backend.Free()

	b := NewBuffer(int(configEntryLayout.Size()))
	defer b.Free()
	pokePointer(b.Addr(), configEntryLayout.offset("name"), name.Ptr())
	pokePointer(b.Addr(), configEntryLayout.offset("value"), value.Ptr())
	pokePointer(b.Addr(), configEntryLayout.offset("backend_type"), backend.Ptr())
	pokeUint32(b.Addr(), configEntryLayout.offset("include_depth"), 2)
	pokeInt32(b.Addr(), configEntryLayout.offset("level"), 5)

	e, err := decodeConfigEntry(b.Addr())
	require.NoError(t, err)
	assert.Equal(t, "user.name", e.Name)
	assert.Equal(t, "Ada", e.Value)
	assert.Equal(t, "file", e.BackendType)
	assert.Equal(t, "", e.OriginPath, "optional field absent")
	assert.Equal(t, uint32(2), e.IncludeDepth)
	assert.Equal(t, int32(5), e.Level)
}

func buildDiffFile(t *testing.T, b *Buffer, base uintptr, path *CString, id Oid, size uint64, mode uint16) {
	t.Helper()
	copy(unsafe.Slice((*byte)(unsafe.Add(b.Addr(), base+diffFileLayout.offset("id"))), OidSHA1Size), id.Bytes())
	pokePointer(b.Addr(), base+diffFileLayout.offset("path"), path.Ptr())
	*(*uint64)(unsafe.Add(b.Addr(), base+diffFileLayout.offset("size"))) = size
	*(*uint16)(unsafe.Add(b.Addr(), base+diffFileLayout.offset("mode"))) = mode
}

func TestDecodeDiffDeltaAndStatusEntry(t *testing.T) {
	oldPath := EncodeCString("docs/old.md")
	defer oldPath.Free()
	newPath := EncodeCString("docs/new.md")
	defer newPath.Free()
	oldID, _ := ParseOid(sha1Hex)
	newID, _ := ParseOid("abcd" + sha1Hex[4:])

	delta := NewBuffer(int(diffDeltaLayout.Size()))
	defer delta.Free()
	pokeInt32(delta.Addr(), diffDeltaLayout.offset("status"), int32(DeltaRenamed))
	pokeUint32(delta.Addr(), diffDeltaLayout.offset("flags"), 1)
	*(*uint16)(unsafe.Add(delta.Addr(), diffDeltaLayout.offset("similarity"))) = 90
	*(*uint16)(unsafe.Add(delta.Addr(), diffDeltaLayout.offset("nfiles"))) = 2
	buildDiffFile(t, delta, diffDeltaLayout.offset("old_file"), oldPath, oldID, 120, 0o100644)
	buildDiffFile(t, delta, diffDeltaLayout.offset("new_file"), newPath, newID, 130, 0o100755)

	d, err := decodeDiffDelta(delta.Addr())
	require.NoError(t, err)
	assert.Equal(t, DeltaRenamed, d.Status)
	assert.Equal(t, uint16(90), d.Similarity)
	assert.Equal(t, uint16(2), d.NFiles)
	assert.Equal(t, "docs/old.md", d.OldFile.Path)
	assert.True(t, d.OldFile.ID.Equal(oldID))
	assert.Equal(t, uint64(120), d.OldFile.Size)
	assert.Equal(t, uint16(0o100644), d.OldFile.Mode)
	assert.Equal(t, "docs/new.md", d.NewFile.Path)
	assert.True(t, d.NewFile.ID.Equal(newID))
	assert.Equal(t, uint16(0o100755), d.NewFile.Mode)

	// Wrap the delta in a status entry with only the workdir side present.
	entry := NewBuffer(int(statusEntryLayout.Size()))
	defer entry.Free()
	pokeUint32(entry.Addr(), statusEntryLayout.offset("status"), 0x80)
	pokePointer(entry.Addr(), statusEntryLayout.offset("index_to_workdir"), delta.Addr())

	se, err := decodeStatusEntry(entry.Addr())
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80), se.Status)

	_, ok, err := se.HeadToIndex()
	require.NoError(t, err)
	assert.False(t, ok, "staged side is NULL")

	wd, ok, err := se.IndexToWorkdir()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "docs/new.md", wd.NewFile.Path)
}

func TestDecodeNilPointers(t *testing.T) {
	var ipe *InvalidPointerError

	_, err := decodeSignature(nil)
	assert.ErrorAs(t, err, &ipe)
	_, err = decodeDiffDelta(nil)
	assert.ErrorAs(t, err, &ipe)
	_, err = decodeConfigEntry(nil)
	assert.ErrorAs(t, err, &ipe)
	_, err = decodeStatusEntry(nil)
	assert.ErrorAs(t, err, &ipe)
	_, err = oidFromPtr(nil, OidSHA1Size)
	assert.ErrorAs(t, err, &ipe)
}

func TestOidFromPtrCopies(t *testing.T) {
	id, _ := ParseOid(sha1Hex)
	b := oidArg(id)
	defer b.Free()

	got, err := oidFromPtr(b.Addr(), OidSHA1Size)
	require.NoError(t, err)
	assert.True(t, got.Equal(id))
}
