// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// ReadIntBE consumes and returns the next 4 bytes as a big-endian
// signed integer.
func (b *Buffer) ReadIntBE() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// ReadIntLE consumes and returns the next 4 bytes as a little-endian
// signed integer.
func (b *Buffer) ReadIntLE() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteIntBE appends v as 4 big-endian bytes.
func (b *Buffer) WriteIntBE(v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := b.Write(buf[:])
	return err
}

// WriteIntLE appends v as 4 little-endian bytes.
func (b *Buffer) WriteIntLE(v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := b.Write(buf[:])
	return err
}

// ReadLongBE consumes and returns the next 8 bytes as a big-endian
// signed integer.
func (b *Buffer) ReadLongBE() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// ReadLongLE consumes and returns the next 8 bytes as a little-endian
// signed integer.
func (b *Buffer) ReadLongLE() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// WriteLongBE appends v as 8 big-endian bytes.
func (b *Buffer) WriteLongBE(v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := b.Write(buf[:])
	return err
}

// WriteLongLE appends v as 8 little-endian bytes.
func (b *Buffer) WriteLongLE(v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, err := b.Write(buf[:])
	return err
}

// ReadShortBE consumes and returns the next 2 bytes as a big-endian
// signed integer.
func (b *Buffer) ReadShortBE() (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

// ReadShortLE consumes and returns the next 2 bytes as a little-endian
// signed integer.
func (b *Buffer) ReadShortLE() (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(b, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// peekUpTo returns a copy of the first n bytes of the buffer (fewer if
// the buffer is shorter) without consuming them.
func (b *Buffer) peekUpTo(n int) []byte {
	if b.head == nil {
		return nil
	}
	out := make([]byte, 0, n)
	s := b.head
	for {
		take := s.len()
		if rem := n - len(out); take > rem {
			take = rem
		}
		out = append(out, s.data[s.pos:s.pos+take]...)
		if len(out) >= n {
			break
		}
		s = s.next
		if s == b.head {
			break
		}
	}
	return out
}

// ReadUtf8CodePoint consumes and decodes one UTF-8 code point from the
// head of the buffer, following the same permissive, overlong- and
// surrogate-aware decode used throughout this package's line and string
// readers: unlike unicode/utf8, a malformed sequence collapses to a
// single utf8.RuneError. A sequence cut short by a byte that is not a
// continuation byte consumes only the lead byte and the valid
// continuation bytes before it, leaving the offending byte unread; any
// other malformed sequence is consumed whole. Returns io.EOF if the buffer is empty and
// io.ErrUnexpectedEOF if a multi-byte sequence starts but the buffer
// ends before it completes.
func (b *Buffer) ReadUtf8CodePoint() (rune, error) {
	if b.size == 0 {
		return 0, io.EOF
	}

	peeked := b.peekUpTo(utf8.UTFMax)
	b0 := peeked[0]

	var codePoint rune
	var byteCount int
	var min rune
	switch {
	case b0&0x80 == 0:
		codePoint, byteCount, min = rune(b0&0x7f), 1, 0x0
	case b0&0xe0 == 0xc0:
		codePoint, byteCount, min = rune(b0&0x1f), 2, 0x80
	case b0&0xf0 == 0xe0:
		codePoint, byteCount, min = rune(b0&0x0f), 3, 0x800
	case b0&0xf8 == 0xf0:
		codePoint, byteCount, min = rune(b0&0x07), 4, 0x10000
	default:
		_, _ = b.ReadByte()
		return utf8.RuneError, nil
	}

	if int64(byteCount) > b.size {
		return 0, io.ErrUnexpectedEOF
	}

	for i := 1; i < byteCount; i++ {
		c := peeked[i]
		if c&0xc0 != 0x80 {
			// Truncated sequence: consume only the bytes examined so far
			// (the lead byte plus any valid continuation bytes), leaving
			// the offending byte for the next read.
			for j := 0; j < i; j++ {
				_, _ = b.ReadByte()
			}
			return utf8.RuneError, nil
		}
		codePoint = codePoint<<6 | rune(c&0x3f)
	}

	for i := 0; i < byteCount; i++ {
		_, _ = b.ReadByte()
	}

	switch {
	case codePoint > 0x10ffff:
		return utf8.RuneError, nil // larger than the Unicode maximum
	case codePoint >= 0xd800 && codePoint <= 0xdfff:
		return utf8.RuneError, nil // partial surrogate
	case codePoint < min:
		return utf8.RuneError, nil // overlong encoding
	default:
		return codePoint, nil
	}
}

// WriteUtf8CodePoint appends r encoded as UTF-8.
func (b *Buffer) WriteUtf8CodePoint(r rune) error {
	var scratch [utf8.UTFMax]byte
	n := utf8.EncodeRune(scratch[:], r)
	_, err := b.Write(scratch[:n])
	return err
}

// ReadDecimalLong consumes an optionally-signed run of ASCII decimal
// digits from the head of the buffer and parses it as int64. Returns a
// *NumberFormatError if no valid digits are present.
func (b *Buffer) ReadDecimalLong() (int64, error) {
	return b.readNumeral(10, false)
}

// ReadHexadecimalLong consumes a run of ASCII hexadecimal digits
// (unsigned, as Okio defines it) from the head of the buffer and
// parses it as uint64 reinterpreted as int64.
func (b *Buffer) ReadHexadecimalLong() (int64, error) {
	v, err := b.readNumeral(16, true)
	return v, err
}

func (b *Buffer) readNumeral(base int, hex bool) (int64, error) {
	var scratch []byte
	for {
		c, err := b.ReadByte()
		if err != nil {
			break
		}
		if isNumeralByte(c, hex) || (len(scratch) == 0 && !hex && (c == '-' || c == '+')) {
			scratch = append(scratch, c)
			continue
		}
		// Not part of the numeral: push it back.
		rest := &Buffer{}
		_ = rest.WriteByte(c)
		_, _ = rest.ReadFrom(b)
		*b = *rest
		break
	}
	if len(scratch) == 0 {
		return 0, &NumberFormatError{Value: preview(scratch)}
	}
	v, err := strconv.ParseInt(string(scratch), base, 64)
	if err != nil {
		if hex {
			uv, uerr := strconv.ParseUint(string(scratch), base, 64)
			if uerr == nil {
				return int64(uv), nil
			}
		}
		return 0, &NumberFormatError{Value: preview(scratch)}
	}
	return v, nil
}

func isNumeralByte(c byte, hex bool) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')):
		return true
	default:
		return false
	}
}

// ReadUtf8Line consumes a line terminated by "\n", "\r\n" or end of
// stream, returning its contents without the terminator. Returns
// io.EOF if the buffer is empty.
func (b *Buffer) ReadUtf8Line() (string, error) {
	idx := b.IndexOf([]byte{'\n'}, 0)
	if idx == -1 {
		if b.size == 0 {
			return "", io.EOF
		}
		s := b.String()
		b.Reset()
		return s, nil
	}
	line := make([]byte, idx)
	_, _ = io.ReadFull(b, line)
	_, _ = b.ReadByte() // consume '\n'
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), nil
}

// ReadUtf8LineStrict is like ReadUtf8Line but requires a terminator to
// be found within the first limit bytes of the buffer (plus one, so a
// terminator landing exactly at limit still counts). If none is found,
// it returns an error wrapping io.ErrUnexpectedEOF whose message carries
// a hex-encoded preview of the unterminated data, capped at
// previewLimit bytes so a pathological input can't blow up the message.
func (b *Buffer) ReadUtf8LineStrict(limit int64) (string, error) {
	if limit < 0 {
		panic("segbuf: limit < 0")
	}
	data := b.Bytes()
	scanLen := int64(len(data))
	if limit < scanLen-1 {
		scanLen = limit + 1
	}
	idx := bytes.IndexByte(data[:scanLen], '\n')
	if idx == -1 {
		preview := data
		if int64(len(preview)) > previewLimit {
			preview = preview[:previewLimit]
		}
		shown := limit
		if int64(len(data)) < shown {
			shown = int64(len(data))
		}
		return "", fmt.Errorf("segbuf: \\n not found: limit=%d content=%s: %w",
			shown, hex.EncodeToString(preview), io.ErrUnexpectedEOF)
	}
	line := make([]byte, idx)
	_, _ = io.ReadFull(b, line)
	_, _ = b.ReadByte() // consume '\n'
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), nil
}

// ReadAll drains the buffer into w and returns the number of bytes
// moved. It is equivalent to WriteTo but named to match the Okio
// nomenclature used throughout the rest of this package.
func (b *Buffer) ReadAll(sink io.Writer) (int64, error) {
	return b.WriteTo(sink)
}
