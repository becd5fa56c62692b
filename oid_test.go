package gitcore

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sha1Hex = "0123456789abcdef0123456789abcdef01234567"

func TestOidParseRoundTrip(t *testing.T) {
	id, err := ParseOid(sha1Hex)
	require.NoError(t, err)
	assert.Equal(t, sha1Hex, id.String())
	assert.Equal(t, OidSHA1Size, id.Size())

	again, err := NewOid(id.Bytes())
	require.NoError(t, err)
	assert.True(t, id.Equal(again))
}

func TestOidParseUppercaseNormalizes(t *testing.T) {
	id, err := ParseOid(strings.ToUpper(sha1Hex))
	require.NoError(t, err)
	assert.Equal(t, sha1Hex, id.String())
}

func TestOidParseRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", sha1Hex[:39]},
		{"long", sha1Hex + "0"},
		{"not-hex", strings.Repeat("zz", OidSHA1Size)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOid(tc.in)
			assert.Error(t, err)
		})
	}
}

func TestOidSHA256(t *testing.T) {
	hex64 := strings.Repeat("ab", OidSHA256Size)
	id, err := ParseOid(hex64)
	require.NoError(t, err)
	assert.Equal(t, OidSHA256Size, id.Size())
	assert.Equal(t, hex64, id.String())

	short, _ := ParseOid(sha1Hex)
	assert.False(t, id.Equal(short))
}

func TestOidZero(t *testing.T) {
	var id Oid
	assert.True(t, id.IsZero())
	assert.Equal(t, OidSHA1Size, id.Size())
	assert.Equal(t, strings.Repeat("0", 40), id.String())

	nz, err := NewOid(bytes.Repeat([]byte{1}, OidSHA1Size))
	require.NoError(t, err)
	assert.False(t, nz.IsZero())
}

func TestNewOidRejectsOddSizes(t *testing.T) {
	for _, n := range []int{0, 19, 21, 31, 33} {
		_, err := NewOid(make([]byte, n))
		assert.Error(t, err, "size %d", n)
	}
}

func TestOidPrefix(t *testing.T) {
	p, err := ParseOidPrefix("AbCd")
	require.NoError(t, err)
	assert.Equal(t, "abcd", p.String())
	assert.Equal(t, 4, p.Len())

	id, _ := ParseOid("abcd" + sha1Hex[4:])
	other, _ := ParseOid(sha1Hex)
	assert.True(t, p.Match(id))
	assert.False(t, p.Match(other))
}

func TestOidPrefixRejects(t *testing.T) {
	_, err := ParseOidPrefix("abc")
	assert.Error(t, err, "below minimum length")

	_, err = ParseOidPrefix(strings.Repeat("a", 65))
	assert.Error(t, err, "longer than a full id")

	_, err = ParseOidPrefix("ghij")
	assert.Error(t, err, "non-hex")
}

func TestOidPrefixRawBytes(t *testing.T) {
	p, err := ParseOidPrefix("abcde")
	require.NoError(t, err)
	raw := p.rawBytes(OidSHA1Size)
	require.Len(t, raw, OidSHA1Size)
	// Odd-length prefix: last nibble fills the high half of its byte.
	assert.Equal(t, []byte{0xab, 0xcd, 0xe0}, raw[:3])
	assert.Equal(t, make([]byte, OidSHA1Size-3), raw[3:])
}
