// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"os"
	"sync"
	"unsafe"
)

// FileHandle provides positional read/write access to an open file,
// independent of any single Source/Sink's sequential cursor. Multiple
// Source and Sink views can be created over the same FileHandle, each
// with its own position.
type FileHandle struct {
	mu sync.Mutex
	f  *os.File

	// readAhead is a page-aligned scratch buffer used to amortize small
	// positional reads into fewer pread calls.
	readAhead   []byte
	bufferStart int64
	buffered    int
}

func newFileHandle(f *os.File) *FileHandle {
	return &FileHandle{f: f, readAhead: AlignedMemBlock()}
}

// Size returns the file's current length.
func (h *FileHandle) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	info, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Resize truncates or extends the file to size bytes.
func (h *FileHandle) Resize(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Truncate(size)
}

// Flush flushes any OS-buffered writes to stable storage.
func (h *FileHandle) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Sync()
}

// Close releases the underlying file descriptor. Any Source/Sink views
// obtained from this FileHandle become invalid.
func (h *FileHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Close()
}

// ReadAt reads len(p) bytes starting at the given file offset. If the
// requested range falls within the current read-ahead window, it is
// served from that buffer without a new pread; a position outside the
// window discards the buffer and reseeks.
//
// The read-ahead window is [bufferStart, bufferStart+buffered): a read
// at an offset inside it keeps the buffered bytes; any other offset
// discards them and issues a fresh positional read. FileHandle has no
// separate reposition operation.
func (h *FileHandle) ReadAt(p []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for n < len(p) {
		pos := offset + int64(n)
		if pos >= h.bufferStart && pos < h.bufferStart+int64(h.buffered) {
			avail := h.readAhead[pos-h.bufferStart : h.buffered]
			copied := copy(p[n:], avail)
			n += copied
			continue
		}

		h.bufferStart = pos
		rn, err := h.f.ReadAt(h.readAhead, pos)
		h.buffered = rn
		if rn == 0 {
			if err == io.EOF || err == nil {
				if n > 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			return n, err
		}
	}
	return n, nil
}

// WriteAt writes p at the given file offset, invalidating any
// read-ahead window that overlaps it.
func (h *FileHandle) WriteAt(p []byte, offset int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offset < h.bufferStart+int64(h.buffered) && offset+int64(len(p)) > h.bufferStart {
		h.buffered = 0
	}
	return h.f.WriteAt(p, offset)
}

// WriteVAt writes buf's entire contents starting at the given file
// offset. It sources the payload from buf.IoVecs() rather than first
// flattening the buffer into one contiguous slice, so a segmented Buffer
// built from spliced-in pieces (WriteBuffer, Clone) can be written out
// without an extra copy of its whole contents.
func (h *FileHandle) WriteVAt(buf *Buffer, offset int64) (int64, error) {
	var n int64
	for _, v := range buf.IoVecs() {
		p := unsafe.Slice(v.Base, int(v.Len))
		wn, err := h.WriteAt(p, offset+n)
		n += int64(wn)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Source returns a Source that reads sequentially starting at offset,
// backed by this FileHandle's positional reads.
func (h *FileHandle) Source(offset int64) Source {
	return &fileHandleSource{h: h, pos: offset}
}

// Sink returns a Sink that writes sequentially starting at offset,
// backed by this FileHandle's positional writes.
func (h *FileHandle) Sink(offset int64) Sink {
	return &fileHandleSink{h: h, pos: offset}
}

type fileHandleSource struct {
	h   *FileHandle
	pos int64
}

func (s *fileHandleSource) Read(p []byte) (int, error) {
	n, err := s.h.ReadAt(p, s.pos)
	s.pos += int64(n)
	return n, err
}
func (s *fileHandleSource) Close() error      { return nil }
func (s *fileHandleSource) Timeout() *Timeout { return nil }

type fileHandleSink struct {
	h   *FileHandle
	pos int64
}

func (s *fileHandleSink) Write(p []byte) (int, error) {
	n, err := s.h.WriteAt(p, s.pos)
	s.pos += int64(n)
	return n, err
}
func (s *fileHandleSink) Close() error      { return nil }
func (s *fileHandleSink) Flush() error      { return s.h.Flush() }
func (s *fileHandleSink) Timeout() *Timeout { return nil }
