// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"
	"unsafe"

	"code.hybscloud.com/segbuf"
)

func TestAlignedMem_PageAlignment(t *testing.T) {
	const size = 8192
	mem := segbuf.AlignedMem(size, segbuf.PageSize)

	if len(mem) != size {
		t.Errorf("AlignedMem length = %d, want %d", len(mem), size)
	}

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	if ptr%segbuf.PageSize != 0 {
		t.Errorf("AlignedMem not page-aligned: address %#x %% %d = %d", ptr, segbuf.PageSize, ptr%segbuf.PageSize)
	}
}

func TestAlignedMem_SmallAllocation(t *testing.T) {
	const size = 64
	mem := segbuf.AlignedMem(size, segbuf.PageSize)

	if len(mem) != size {
		t.Errorf("AlignedMem length = %d, want %d", len(mem), size)
	}

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	if ptr%segbuf.PageSize != 0 {
		t.Errorf("AlignedMem not page-aligned: address %#x %% %d = %d", ptr, segbuf.PageSize, ptr%segbuf.PageSize)
	}
}

func TestAlignedMemBlocks(t *testing.T) {
	const n = 4
	blocks := segbuf.AlignedMemBlocks(n, segbuf.PageSize)

	if len(blocks) != n {
		t.Errorf("AlignedMemBlocks returned %d blocks, want %d", len(blocks), n)
	}

	for i, block := range blocks {
		if uintptr(len(block)) != segbuf.PageSize {
			t.Errorf("block[%d] length = %d, want %d", i, len(block), segbuf.PageSize)
		}
		ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
		if ptr%segbuf.PageSize != 0 {
			t.Errorf("block[%d] not page-aligned: address %#x %% %d = %d", i, ptr, segbuf.PageSize, ptr%segbuf.PageSize)
		}
	}
}

func TestAlignedMemBlock(t *testing.T) {
	block := segbuf.AlignedMemBlock()

	if uintptr(len(block)) != segbuf.PageSize {
		t.Errorf("AlignedMemBlock length = %d, want %d", len(block), segbuf.PageSize)
	}

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	if ptr%segbuf.PageSize != 0 {
		t.Errorf("AlignedMemBlock not page-aligned: address %#x %% %d = %d", ptr, segbuf.PageSize, ptr%segbuf.PageSize)
	}
}

func TestNewBuffers(t *testing.T) {
	const n, size = 8, 256
	bufs := segbuf.NewBuffers(n, size)

	if len(bufs) != n {
		t.Errorf("NewBuffers returned %d buffers, want %d", len(bufs), n)
	}

	for i, buf := range bufs {
		if len(buf) != size {
			t.Errorf("buffer[%d] length = %d, want %d", i, len(buf), size)
		}
	}
}

func TestNewBuffers_ZeroSize(t *testing.T) {
	const n = 4
	bufs := segbuf.NewBuffers(n, 0)

	if len(bufs) != n {
		t.Errorf("NewBuffers returned %d buffers, want %d", len(bufs), n)
	}

	for i, buf := range bufs {
		if len(buf) != 0 {
			t.Errorf("buffer[%d] length = %d, want 0", i, len(buf))
		}
	}
}

func TestCacheLineAlignedMemBlocks(t *testing.T) {
	const n, size = 4, 128
	blocks := segbuf.CacheLineAlignedMemBlocks(n, size)

	if len(blocks) != n {
		t.Errorf("CacheLineAlignedMemBlocks returned %d blocks, want %d", len(blocks), n)
	}

	for i, block := range blocks {
		if len(block) != size {
			t.Errorf("block[%d] length = %d, want %d", i, len(block), size)
		}
		ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
		if ptr%uintptr(segbuf.CacheLineSize) != 0 {
			t.Errorf("block[%d] not cache-line-aligned: address %#x %% %d = %d",
				i, ptr, segbuf.CacheLineSize, ptr%uintptr(segbuf.CacheLineSize))
		}
	}
}

func TestNewBuffers_InvalidN(t *testing.T) {
	bufs := segbuf.NewBuffers(0, 64)
	if len(bufs) != 0 {
		t.Errorf("NewBuffers(0, 64) returned %d buffers, want 0", len(bufs))
	}

	bufs = segbuf.NewBuffers(-1, 64)
	if len(bufs) != 0 {
		t.Errorf("NewBuffers(-1, 64) returned %d buffers, want 0", len(bufs))
	}
}

func TestAlignedMemBlocks_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("AlignedMemBlocks(0, PageSize) did not panic")
		}
	}()
	_ = segbuf.AlignedMemBlocks(0, segbuf.PageSize)
}

func TestAlignedMem_NonStandardPageSize(t *testing.T) {
	const customPageSize = 8192
	const size = 16384
	mem := segbuf.AlignedMem(size, customPageSize)

	if len(mem) != size {
		t.Errorf("AlignedMem length = %d, want %d", len(mem), size)
	}

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	if ptr%customPageSize != 0 {
		t.Errorf("AlignedMem not aligned to %d: address %#x %% %d = %d",
			customPageSize, ptr, customPageSize, ptr%customPageSize)
	}
}

func TestSetPageSize(t *testing.T) {
	original := segbuf.PageSize
	defer segbuf.SetPageSize(int(original))

	segbuf.SetPageSize(8192)
	if segbuf.PageSize != 8192 {
		t.Errorf("SetPageSize(8192) resulted in PageSize = %d, want 8192", segbuf.PageSize)
	}
}
