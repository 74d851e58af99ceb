// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestByteString_EncodeUtf8AndHex(t *testing.T) {
	bs := segbuf.EncodeUtf8("hello")
	if bs.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", bs.Len())
	}
	if bs.Hex() != "68656c6c6f" {
		t.Errorf("Hex() = %q, want %q", bs.Hex(), "68656c6c6f")
	}
	if bs.Utf8() != "hello" {
		t.Errorf("Utf8() = %q, want %q", bs.Utf8(), "hello")
	}
}

func TestByteString_DecodeHex(t *testing.T) {
	bs, err := segbuf.DecodeHex("deadbeef")
	if err != nil {
		t.Fatalf("DecodeHex: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	got := bs.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DecodeHex bytes = %x, want %x", got, want)
		}
	}
}

func TestByteString_DecodeBase64(t *testing.T) {
	bs, err := segbuf.DecodeBase64("aGVsbG8=")
	if err != nil {
		t.Fatalf("DecodeBase64: %v", err)
	}
	if bs.Utf8() != "hello" {
		t.Errorf("Utf8() = %q, want %q", bs.Utf8(), "hello")
	}
}

func TestByteString_Equal(t *testing.T) {
	a := segbuf.EncodeUtf8("abc")
	b := segbuf.EncodeUtf8("abc")
	c := segbuf.EncodeUtf8("abd")
	if !a.Equal(b) {
		t.Error("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Error("expected !a.Equal(c)")
	}
}

func TestByteString_StartsEndsWith(t *testing.T) {
	bs := segbuf.EncodeUtf8("hello world")
	if !bs.StartsWith(segbuf.EncodeUtf8("hello")) {
		t.Error("expected StartsWith(hello)")
	}
	if !bs.EndsWith(segbuf.EncodeUtf8("world")) {
		t.Error("expected EndsWith(world)")
	}
	if bs.StartsWith(segbuf.EncodeUtf8("world")) {
		t.Error("expected !StartsWith(world)")
	}
}

func TestByteString_Substring(t *testing.T) {
	bs := segbuf.EncodeUtf8("hello world")
	sub := bs.Substring(6, 11)
	if sub.Utf8() != "world" {
		t.Errorf("Substring(6, 11) = %q, want %q", sub.Utf8(), "world")
	}
}

func TestByteString_BufferRoundTrip(t *testing.T) {
	var buf segbuf.Buffer
	_, _ = buf.WriteString("round trip")

	bs := buf.ToByteString()
	if bs.Utf8() != "round trip" {
		t.Fatalf("ToByteString() = %q, want %q", bs.Utf8(), "round trip")
	}
	if buf.Len() != 10 {
		t.Errorf("ToByteString consumed the buffer: Len() = %d, want 10", buf.Len())
	}

	back := bs.ToBuffer()
	if back.String() != "round trip" {
		t.Errorf("ToBuffer().String() = %q, want %q", back.String(), "round trip")
	}
}

func TestByteString_IsValidUtf8(t *testing.T) {
	valid := segbuf.EncodeUtf8("valid")
	if !valid.IsValidUtf8() {
		t.Error("expected valid UTF-8")
	}
	invalid := segbuf.ByteStringOf([]byte{0xff, 0xfe})
	if invalid.IsValidUtf8() {
		t.Error("expected invalid UTF-8")
	}
}
