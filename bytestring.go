// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"unicode/utf8"
)

// ByteString is an immutable sequence of bytes with value semantics:
// two ByteStrings holding the same bytes compare equal regardless of
// how each was constructed. It is the immutable counterpart to Buffer.
type ByteString struct {
	data []byte

	hexCache    string
	hexCached   bool
	utf8Cache   string
	utf8Cached  bool
}

// NewByteString copies b into a new ByteString.
func NewByteString(b []byte) ByteString {
	cp := make([]byte, len(b))
	copy(cp, b)
	return ByteString{data: cp}
}

// ByteStringOf returns a ByteString wrapping s without copying. The
// caller must not mutate s afterward.
func ByteStringOf(s []byte) ByteString {
	return ByteString{data: s}
}

// EncodeUtf8 returns a ByteString holding the UTF-8 encoding of s.
func EncodeUtf8(s string) ByteString {
	return ByteString{data: []byte(s), utf8Cache: s, utf8Cached: true}
}

// DecodeHex parses a hex-encoded string into a ByteString.
func DecodeHex(s string) (ByteString, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ByteString{}, err
	}
	return ByteString{data: b}, nil
}

// DecodeBase64 parses a standard base64-encoded string into a
// ByteString. Padding is optional.
func DecodeBase64(s string) (ByteString, error) {
	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return ByteString{}, err
	}
	return ByteString{data: b}, nil
}

// Len returns the number of bytes in the ByteString.
func (bs ByteString) Len() int { return len(bs.data) }

// Bytes returns a copy of the ByteString's bytes.
func (bs ByteString) Bytes() []byte {
	out := make([]byte, len(bs.data))
	copy(out, bs.data)
	return out
}

// At returns the byte at position i.
func (bs ByteString) At(i int) byte { return bs.data[i] }

// Utf8 decodes the ByteString as UTF-8, caching the result.
func (bs *ByteString) Utf8() string {
	if bs.utf8Cached {
		return bs.utf8Cache
	}
	bs.utf8Cache = string(bs.data)
	bs.utf8Cached = true
	return bs.utf8Cache
}

// Hex returns the lowercase hex encoding of the ByteString, caching the
// result.
func (bs *ByteString) Hex() string {
	if bs.hexCached {
		return bs.hexCache
	}
	bs.hexCache = hex.EncodeToString(bs.data)
	bs.hexCached = true
	return bs.hexCache
}

// Base64 returns the standard base64 encoding of the ByteString.
func (bs ByteString) Base64() string {
	return base64.StdEncoding.EncodeToString(bs.data)
}

// IsValidUtf8 reports whether the ByteString holds well-formed UTF-8.
func (bs ByteString) IsValidUtf8() bool {
	return utf8.Valid(bs.data)
}

// Equal reports whether bs and other hold the same bytes.
func (bs ByteString) Equal(other ByteString) bool {
	return bytes.Equal(bs.data, other.data)
}

// Compare orders bs and other lexicographically by byte value.
func (bs ByteString) Compare(other ByteString) int {
	return bytes.Compare(bs.data, other.data)
}

// StartsWith reports whether bs begins with prefix's bytes.
func (bs ByteString) StartsWith(prefix ByteString) bool {
	return bytes.HasPrefix(bs.data, prefix.data)
}

// EndsWith reports whether bs ends with suffix's bytes.
func (bs ByteString) EndsWith(suffix ByteString) bool {
	return bytes.HasSuffix(bs.data, suffix.data)
}

// IndexOf returns the index of the first occurrence of other within bs
// at or after fromIndex, or -1 if not found.
func (bs ByteString) IndexOf(other ByteString, fromIndex int) int {
	if fromIndex < 0 || fromIndex > len(bs.data) {
		return -1
	}
	idx := bytes.Index(bs.data[fromIndex:], other.data)
	if idx < 0 {
		return -1
	}
	return fromIndex + idx
}

// Substring returns the ByteString of bs.data[beginIndex:endIndex],
// sharing the underlying array.
func (bs ByteString) Substring(beginIndex, endIndex int) ByteString {
	return ByteString{data: bs.data[beginIndex:endIndex]}
}

// ToByteString returns a snapshot of the buffer's current contents as
// an immutable ByteString, without consuming the buffer.
func (b *Buffer) ToByteString() ByteString {
	return NewByteString(b.Bytes())
}

// ToBuffer returns a new Buffer primed with the ByteString's contents.
func (bs ByteString) ToBuffer() *Buffer {
	buf := &Buffer{}
	_, _ = buf.Write(bs.data)
	return buf
}
