package gitcore

import "unsafe"

// Blob wraps a git_blob handle. Owned: Free releases it.
type Blob struct {
	lib *Lib
	h   *Handle
}

// Free releases the blob. Idempotent.
func (b *Blob) Free() { b.h.Free() }

func (b *Blob) ptr() (unsafe.Pointer, error) { return b.h.Pointer() }

// ID returns the blob's object id.
func (b *Blob) ID() (Oid, error) {
	p, err := b.ptr()
	if err != nil {
		return Oid{}, err
	}
	return oidFromPtr(b.lib.fn("git_blob_id").callPtr(ptrArg(p)), b.lib.oidSize)
}

// Size returns the raw content size in bytes.
func (b *Blob) Size() (int64, error) {
	p, err := b.ptr()
	if err != nil {
		return 0, err
	}
	return b.lib.fn("git_blob_rawsize").callInt64(ptrArg(p)), nil
}

// IsBinary applies the library's binary heuristic to the content.
func (b *Blob) IsBinary() (bool, error) {
	p, err := b.ptr()
	if err != nil {
		return false, err
	}
	return b.lib.fn("git_blob_is_binary").callInt(ptrArg(p)) != 0, nil
}

// Content copies the raw content into Go memory. The native buffer is
// borrowed from the blob and never exposed directly.
func (b *Blob) Content() ([]byte, error) {
	p, err := b.ptr()
	if err != nil {
		return nil, err
	}
	n := b.lib.fn("git_blob_rawsize").callInt64(ptrArg(p))
	if n == 0 {
		return []byte{}, nil
	}
	raw := b.lib.fn("git_blob_rawcontent").callPtr(ptrArg(p))
	if raw == nil {
		return nil, &InvalidPointerError{Context: "blob content"}
	}
	return peekBytes(raw, 0, uintptr(n)), nil
}
