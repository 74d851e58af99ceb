// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"code.hybscloud.com/segbuf"
)

func TestBuffer_WriteRead(t *testing.T) {
	var b segbuf.Buffer
	n, err := b.WriteString("hello, world")
	if err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if n != 12 {
		t.Errorf("n = %d, want 12", n)
	}
	if b.Len() != 12 {
		t.Errorf("Len() = %d, want 12", b.Len())
	}

	out := make([]byte, 5)
	rn, err := b.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(out[:rn]) != "hello" {
		t.Errorf("Read = %q, want %q", out[:rn], "hello")
	}
	if b.Len() != 7 {
		t.Errorf("Len() after partial read = %d, want 7", b.Len())
	}
}

func TestBuffer_ReadEOF(t *testing.T) {
	var b segbuf.Buffer
	buf := make([]byte, 8)
	_, err := b.Read(buf)
	if err != io.EOF {
		t.Errorf("Read on empty buffer: err = %v, want io.EOF", err)
	}
}

func TestBuffer_MultiSegmentWrite(t *testing.T) {
	var b segbuf.Buffer
	data := make([]byte, segbuf.SegmentSize*3+17)
	for i := range data {
		data[i] = byte(i)
	}
	if _, err := b.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if b.Len() != int64(len(data)) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(data))
	}
	got := b.Bytes()
	if !bytes.Equal(got, data) {
		t.Errorf("round-tripped bytes mismatch")
	}
}

func TestBuffer_Clone(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("shared segment contents")

	clone := b.Clone()
	if clone.Len() != b.Len() {
		t.Fatalf("clone.Len() = %d, want %d", clone.Len(), b.Len())
	}
	if clone.String() != b.String() {
		t.Fatalf("clone contents differ: %q vs %q", clone.String(), b.String())
	}

	// Mutating the clone must not affect the original.
	_, _ = clone.WriteString(" appended")
	if b.String() == clone.String() {
		t.Errorf("mutating clone affected original buffer")
	}
}

func TestBuffer_WriteBufferMovesBytesAcrossBuffers(t *testing.T) {
	var src, dst segbuf.Buffer
	_, _ = src.WriteString("hello world")
	_, _ = dst.WriteString("prefix:")

	if err := dst.WriteBuffer(&src, 5); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if src.Len() != 6 {
		t.Fatalf("src.Len() = %d, want 6", src.Len())
	}
	if src.String() != " world" {
		t.Errorf("src remainder = %q, want %q", src.String(), " world")
	}
	if dst.String() != "prefix:hello" {
		t.Errorf("dst contents = %q, want %q", dst.String(), "prefix:hello")
	}
}

func TestBuffer_WriteBufferWholeSource(t *testing.T) {
	var src, dst segbuf.Buffer
	payload := bytes.Repeat([]byte("segment-spanning-data-"), 2000)
	_, _ = src.Write(payload)

	if err := dst.WriteBuffer(&src, int64(len(payload))); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if src.Len() != 0 {
		t.Errorf("src.Len() = %d, want 0", src.Len())
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Errorf("dst contents did not match moved payload")
	}
}

func TestBuffer_IndexOf(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("the quick brown fox")

	idx := b.IndexOf([]byte("quick"), 0)
	if idx != 4 {
		t.Errorf("IndexOf(quick) = %d, want 4", idx)
	}
	idx = b.IndexOf([]byte("missing"), 0)
	if idx != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", idx)
	}
}

func TestBuffer_RangeEquals(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("0123456789")

	if !b.RangeEquals(3, []byte("345")) {
		t.Error("RangeEquals(3, \"345\") = false, want true")
	}
	if b.RangeEquals(3, []byte("999")) {
		t.Error("RangeEquals(3, \"999\") = true, want false")
	}
}

func TestBuffer_WriteTo(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.Write(make([]byte, segbuf.SegmentSize*2+5))

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(segbuf.SegmentSize*2+5) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, segbuf.SegmentSize*2+5)
	}
	if b.Len() != 0 {
		t.Errorf("buffer not drained after WriteTo: Len() = %d", b.Len())
	}
}

func TestBuffer_ReadFrom(t *testing.T) {
	var b segbuf.Buffer
	src := bytes.NewReader(make([]byte, segbuf.SegmentSize+100))

	n, err := b.ReadFrom(src)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(segbuf.SegmentSize+100) {
		t.Errorf("ReadFrom read %d bytes, want %d", n, segbuf.SegmentSize+100)
	}
}

func TestBuffer_IntCodecs(t *testing.T) {
	var b segbuf.Buffer
	if err := b.WriteIntBE(0x01020304); err != nil {
		t.Fatalf("WriteIntBE: %v", err)
	}
	v, err := b.ReadIntBE()
	if err != nil {
		t.Fatalf("ReadIntBE: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("ReadIntBE() = %#x, want %#x", v, 0x01020304)
	}

	if err := b.WriteLongLE(-42); err != nil {
		t.Fatalf("WriteLongLE: %v", err)
	}
	lv, err := b.ReadLongLE()
	if err != nil {
		t.Fatalf("ReadLongLE: %v", err)
	}
	if lv != -42 {
		t.Errorf("ReadLongLE() = %d, want -42", lv)
	}
}

func TestBuffer_Utf8CodePoint(t *testing.T) {
	var b segbuf.Buffer
	if err := b.WriteUtf8CodePoint('å'); err != nil {
		t.Fatalf("WriteUtf8CodePoint: %v", err)
	}
	if err := b.WriteUtf8CodePoint('A'); err != nil {
		t.Fatalf("WriteUtf8CodePoint: %v", err)
	}
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != 'å' {
		t.Errorf("ReadUtf8CodePoint() = %q, want %q", r, 'å')
	}
	r, err = b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != 'A' {
		t.Errorf("ReadUtf8CodePoint() = %q, want %q", r, 'A')
	}
}

func TestBuffer_ReadDecimalLong(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"123 rest", 123},
		{"-45,", -45},
	}
	for _, tt := range tests {
		var b segbuf.Buffer
		_, _ = b.WriteString(tt.in)
		got, err := b.ReadDecimalLong()
		if err != nil {
			t.Fatalf("ReadDecimalLong(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ReadDecimalLong(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuffer_ReadDecimalLong_Invalid(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("not a number")
	_, err := b.ReadDecimalLong()
	if err == nil {
		t.Fatal("expected error for non-numeric input")
	}
	var nfe *segbuf.NumberFormatError
	if _, ok := err.(*segbuf.NumberFormatError); !ok {
		t.Errorf("err = %T (%v), want *NumberFormatError", err, err)
		_ = nfe
	}
}

func TestBuffer_ReadUtf8Line(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("first\r\nsecond\nthird")

	line, err := b.ReadUtf8Line()
	if err != nil || line != "first" {
		t.Fatalf("ReadUtf8Line() = (%q, %v), want (\"first\", nil)", line, err)
	}
	line, err = b.ReadUtf8Line()
	if err != nil || line != "second" {
		t.Fatalf("ReadUtf8Line() = (%q, %v), want (\"second\", nil)", line, err)
	}
	line, err = b.ReadUtf8Line()
	if err != nil || line != "third" {
		t.Fatalf("ReadUtf8Line() = (%q, %v), want (\"third\", nil)", line, err)
	}
	_, err = b.ReadUtf8Line()
	if err != io.EOF {
		t.Fatalf("ReadUtf8Line() on exhausted buffer: err = %v, want io.EOF", err)
	}
}

func TestBuffer_ReadUtf8LineStrict_NoTerminator(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("no newline here")
	_, err := b.ReadUtf8LineStrict(b.Len())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadUtf8LineStrict() err = %v, want io.ErrUnexpectedEOF", err)
	}
	want := hex.EncodeToString([]byte("no newline here"))
	if !strings.Contains(err.Error(), want) {
		t.Errorf("ReadUtf8LineStrict() err = %q, want it to contain hex preview %q", err, want)
	}
}

func TestBuffer_ReadUtf8LineStrict_PreviewCapped(t *testing.T) {
	var b segbuf.Buffer
	payload := bytes.Repeat([]byte("x"), 100)
	_, _ = b.Write(payload)

	_, err := b.ReadUtf8LineStrict(b.Len())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadUtf8LineStrict() err = %v, want io.ErrUnexpectedEOF", err)
	}
	want := hex.EncodeToString(payload[:32])
	if !strings.Contains(err.Error(), want) {
		t.Errorf("ReadUtf8LineStrict() err = %q, want 32-byte hex preview %q", err, want)
	}
	if strings.Contains(err.Error(), hex.EncodeToString(payload[:33])) {
		t.Errorf("ReadUtf8LineStrict() err = %q, preview exceeded the 32-byte cap", err)
	}
}

func TestBuffer_ReadUtf8LineStrict_TerminatorWithinLimit(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("short\nrest")
	line, err := b.ReadUtf8LineStrict(5)
	if err != nil || line != "short" {
		t.Fatalf("ReadUtf8LineStrict(5) = (%q, %v), want (\"short\", nil)", line, err)
	}
}

func TestBuffer_ReadUtf8LineStrict_TerminatorBeyondLimit(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.WriteString("toolong\nrest")
	_, err := b.ReadUtf8LineStrict(3)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadUtf8LineStrict(3) err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestBuffer_Utf8CodePoint_Overlong(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.Write([]byte{0xc0, 0x80})
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != utf8.RuneError {
		t.Errorf("ReadUtf8CodePoint() = %U, want U+FFFD", r)
	}
	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0 (both overlong bytes consumed)", b.Len())
	}
}

func TestBuffer_Utf8CodePoint_OverlongThreeByte(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.Write([]byte{0xe0, 0x80, 0x80})
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != utf8.RuneError {
		t.Errorf("ReadUtf8CodePoint() = %U, want U+FFFD", r)
	}
	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0", b.Len())
	}
}

func TestBuffer_Utf8CodePoint_ValidThreeByte(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.Write([]byte{0xef, 0xbf, 0xbf})
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != 0xffff {
		t.Errorf("ReadUtf8CodePoint() = %U, want U+FFFF", r)
	}
	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0", b.Len())
	}
}

func TestBuffer_Utf8CodePoint_Surrogate(t *testing.T) {
	var b segbuf.Buffer
	_, _ = b.Write([]byte{0xed, 0xa0, 0x80}) // encodes surrogate U+D800
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != utf8.RuneError {
		t.Errorf("ReadUtf8CodePoint() = %U, want U+FFFD", r)
	}
	if b.Len() != 0 {
		t.Errorf("b.Len() = %d, want 0", b.Len())
	}
}

func TestBuffer_Utf8CodePoint_TruncatedContinuation(t *testing.T) {
	var b segbuf.Buffer
	// Lead byte promises 3 bytes, but the second byte isn't a continuation.
	_, _ = b.Write([]byte{0xe0, 0x41, 0x42})
	r, err := b.ReadUtf8CodePoint()
	if err != nil {
		t.Fatalf("ReadUtf8CodePoint: %v", err)
	}
	if r != utf8.RuneError {
		t.Errorf("ReadUtf8CodePoint() = %U, want U+FFFD", r)
	}
	if b.Len() != 2 {
		t.Fatalf("b.Len() = %d, want 2 (only the lead byte consumed)", b.Len())
	}
	next, err := b.ReadUtf8CodePoint()
	if err != nil || next != 'A' {
		t.Errorf("next ReadUtf8CodePoint() = (%q, %v), want ('A', nil)", next, err)
	}
}
