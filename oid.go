package gitcore

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"unsafe"
)

// Object id sizes, in raw bytes.
const (
	OidSHA1Size   = 20
	OidSHA256Size = 32

	// OidMinPrefixLen is the shortest hex prefix accepted for prefix lookup.
	OidMinPrefixLen = 4
)

// Oid is a fixed-size binary object hash. The zero value is the all-zero
// SHA-1 id.
type Oid struct {
	raw  [OidSHA256Size]byte
	size uint8
}

// NewOid builds an Oid from 20 (SHA-1) or 32 (SHA-256) raw bytes.
func NewOid(raw []byte) (Oid, error) {
	if len(raw) != OidSHA1Size && len(raw) != OidSHA256Size {
		return Oid{}, fmt.Errorf("gitcore: oid must be %d or %d bytes, got %d",
			OidSHA1Size, OidSHA256Size, len(raw))
	}
	var o Oid
	copy(o.raw[:], raw)
	o.size = uint8(len(raw))
	return o, nil
}

// ParseOid decodes a full 40- or 64-character hex string. Decoding then
// re-encoding is lossless; the canonical textual form is lowercase.
func ParseOid(s string) (Oid, error) {
	if len(s) != 2*OidSHA1Size && len(s) != 2*OidSHA256Size {
		return Oid{}, fmt.Errorf("gitcore: oid hex must be %d or %d chars, got %d",
			2*OidSHA1Size, 2*OidSHA256Size, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Oid{}, fmt.Errorf("gitcore: bad oid hex %q: %w", s, err)
	}
	return NewOid(raw)
}

// Size is the raw byte width (20 or 32). The zero Oid reports 20.
func (o Oid) Size() int {
	if o.size == 0 {
		return OidSHA1Size
	}
	return int(o.size)
}

// Bytes returns a copy of the raw hash.
func (o Oid) Bytes() []byte {
	out := make([]byte, o.Size())
	copy(out, o.raw[:o.Size()])
	return out
}

// String renders the canonical lowercase hex form.
func (o Oid) String() string {
	return hex.EncodeToString(o.raw[:o.Size()])
}

// IsZero reports whether every raw byte is zero.
func (o Oid) IsZero() bool {
	for _, b := range o.raw[:o.Size()] {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal compares width and bytes.
func (o Oid) Equal(other Oid) bool {
	return o.Size() == other.Size() &&
		bytes.Equal(o.raw[:o.Size()], other.raw[:other.Size()])
}

// OidPrefix is a validated hex prefix for abbreviated lookup.
type OidPrefix struct {
	hex string
}

// ParseOidPrefix validates an abbreviated hex id. At least OidMinPrefixLen
// characters are required before a prefix is accepted; shorter input is
// rejected rather than silently matching half the repository.
func ParseOidPrefix(s string) (OidPrefix, error) {
	if len(s) < OidMinPrefixLen {
		return OidPrefix{}, fmt.Errorf("gitcore: oid prefix needs at least %d hex chars, got %d",
			OidMinPrefixLen, len(s))
	}
	if len(s) > 2*OidSHA256Size {
		return OidPrefix{}, fmt.Errorf("gitcore: oid prefix longer than a full id")
	}
	lower := strings.ToLower(s)
	for _, c := range lower {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return OidPrefix{}, fmt.Errorf("gitcore: oid prefix %q is not hex", s)
		}
	}
	return OidPrefix{hex: lower}, nil
}

// String returns the lowercase prefix text.
func (p OidPrefix) String() string { return p.hex }

// Len is the prefix length in hex characters.
func (p OidPrefix) Len() int { return len(p.hex) }

// Match reports whether id starts with this prefix.
func (p OidPrefix) Match(id Oid) bool {
	return strings.HasPrefix(id.String(), p.hex)
}

// rawBytes expands the prefix into a zero-padded raw id of the given byte
// width, the form prefix-lookup calls expect next to the hex length.
func (p OidPrefix) rawBytes(size int) []byte {
	out := make([]byte, size)
	for i := 0; i < len(p.hex) && i/2 < size; i++ {
		nib := hexNibble(p.hex[i])
		if i%2 == 0 {
			out[i/2] |= nib << 4
		} else {
			out[i/2] |= nib
		}
	}
	return out
}

func hexNibble(c byte) byte {
	if c >= 'a' {
		return c - 'a' + 10
	}
	return c - '0'
}

// oidFromPtr copies a native git_oid out of the library's memory.
func oidFromPtr(p unsafe.Pointer, size int) (Oid, error) {
	if p == nil {
		return Oid{}, &InvalidPointerError{Context: "oid"}
	}
	return NewOid(peekBytes(p, 0, uintptr(size)))
}

// oidArg copies an Oid into a C-heap buffer for a const git_oid* argument.
// The caller frees the buffer after the native call returns.
func oidArg(id Oid) *Buffer {
	b := NewBuffer(id.Size())
	b.SetBytes(id.Bytes())
	return b
}
