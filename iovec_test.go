// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"
	"unsafe"

	"code.hybscloud.com/segbuf"
)

func TestIoVecFromBytesSlice(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := segbuf.IoVecFromBytesSlice(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("single buffer", func(t *testing.T) {
		buf := make([]byte, 128)
		buf[0] = 0xAB
		iov := [][]byte{buf}
		addr, n := segbuf.IoVecFromBytesSlice(iov)
		if n != 1 {
			t.Errorf("expected n=1, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})

	t.Run("multiple buffers", func(t *testing.T) {
		bufs := [][]byte{
			make([]byte, 64),
			make([]byte, 128),
			make([]byte, 256),
		}
		addr, n := segbuf.IoVecFromBytesSlice(bufs)
		if n != 3 {
			t.Errorf("expected n=3, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})
}

func TestIoVecAddrLen(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := segbuf.IoVecAddrLen(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("non-empty slice", func(t *testing.T) {
		vec := make([]segbuf.IoVec, 4)
		addr, n := segbuf.IoVecAddrLen(vec)
		if n != 4 {
			t.Errorf("expected n=4, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
		expectedAddr := uintptr(unsafe.Pointer(&vec[0]))
		if addr != expectedAddr {
			t.Errorf("expected addr=%d, got %d", expectedAddr, addr)
		}
	})
}

func TestIoVecPointerStability(t *testing.T) {
	bufs := [][]byte{
		{0x11},
		{0x22},
		{0x33},
		{0x44},
	}

	addr, n := segbuf.IoVecFromBytesSlice(bufs)
	if n != 4 {
		t.Fatalf("expected n=4, got %d", n)
	}
	vec := unsafe.Slice((*segbuf.IoVec)(unsafe.Pointer(addr)), n)

	for i := range vec {
		ptr := unsafe.Pointer(vec[i].Base)
		val := *(*byte)(ptr)
		expected := byte((i + 1) * 0x11)
		if val != expected {
			t.Errorf("vec[%d] points to value 0x%02X, expected 0x%02X", i, val, expected)
		}
	}
}

func TestBuffer_IoVecs(t *testing.T) {
	t.Run("empty buffer", func(t *testing.T) {
		var b segbuf.Buffer
		if vec := b.IoVecs(); vec != nil {
			t.Errorf("expected nil for empty buffer, got %v", vec)
		}
	})

	t.Run("single segment", func(t *testing.T) {
		var b segbuf.Buffer
		if _, err := b.WriteString("hello"); err != nil {
			t.Fatalf("WriteString: %v", err)
		}
		vec := b.IoVecs()
		if len(vec) != 1 {
			t.Fatalf("expected 1 iovec, got %d", len(vec))
		}
		if vec[0].Len != 5 {
			t.Errorf("expected len=5, got %d", vec[0].Len)
		}
		got := unsafe.String(vec[0].Base, int(vec[0].Len))
		if got != "hello" {
			t.Errorf("expected %q, got %q", "hello", got)
		}
	})

	t.Run("multiple segments", func(t *testing.T) {
		var b segbuf.Buffer
		big := make([]byte, segbuf.SegmentSize+100)
		for i := range big {
			big[i] = byte(i)
		}
		if _, err := b.Write(big); err != nil {
			t.Fatalf("Write: %v", err)
		}
		vec := b.IoVecs()
		if len(vec) < 2 {
			t.Fatalf("expected at least 2 iovecs, got %d", len(vec))
		}
		var total uint64
		for _, v := range vec {
			total += v.Len
		}
		if total != uint64(len(big)) {
			t.Errorf("expected total len=%d, got %d", len(big), total)
		}
	})
}
