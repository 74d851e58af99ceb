// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"bytes"
	"io"
)

// Buffer is a mutable sequence of bytes backed by a circular list of
// fixed-size Segments. It implements both Source and Sink: writes
// append to the tail, reads consume from the head, and both run in
// amortized O(1) by operating on whole segments wherever possible.
//
// A zero-value Buffer is empty and ready to use. Buffer is not safe for
// concurrent use.
type Buffer struct {
	_ noCopy

	head *Segment
	size int64

	cursorHeld bool
}

// truncateTo discards bytes from the tail of the buffer until its
// length equals newSize.
func (b *Buffer) truncateTo(newSize int64) {
	if newSize >= b.size {
		return
	}
	tail := b.head.prev
	for b.size > newSize {
		drop := b.size - newSize
		if int64(tail.len()) <= drop {
			prev := tail.prev
			b.size -= int64(tail.len())
			removed := tail.pop()
			if removed == nil {
				b.head = nil
			} else if b.head == tail {
				b.head = removed
			}
			if !tail.shared {
				recycleSegment(tail)
			}
			tail = prev
			continue
		}
		tail.limit -= int(drop)
		b.size -= drop
	}
}

// Len returns the number of bytes currently buffered.
func (b *Buffer) Len() int64 { return b.size }

// Timeout implements Source and Sink; a Buffer has no timeout of its
// own, since it never blocks.
func (b *Buffer) Timeout() *Timeout { return nil }

// Close implements Source and Sink as a no-op; closing a Buffer has no
// effect on its contents.
func (b *Buffer) Close() error { return nil }

// Flush implements Sink as a no-op; a Buffer has no downstream to push
// data to.
func (b *Buffer) Flush() error { return nil }

// Reset discards all buffered data, returning every segment it owns to
// the segment pool.
func (b *Buffer) Reset() {
	if b.head == nil {
		return
	}
	s := b.head
	for {
		next := s.next
		if !s.shared {
			recycleSegment(s)
		}
		if next == b.head {
			break
		}
		s = next
	}
	b.head = nil
	b.size = 0
}

// writableTail returns the segment with spare capacity to append into,
// allocating and linking a fresh one if the tail is full, shared, or
// the buffer is empty.
func (b *Buffer) writableTail(minCapacity int) *Segment {
	if b.head == nil {
		s := newSegment()
		s.next, s.prev = s, s
		b.head = s
		return s
	}
	tail := b.head.prev
	if !tail.owner || tail.shared {
		if tail.len() > 0 && tail.len()+minCapacity <= SegmentSize {
			// The shared tail still has spare room once its live bytes are
			// copied out; reuse that room instead of wasting a whole fresh
			// segment on minCapacity alone.
			fresh := tail.unsharedCopy()
			tail.push(fresh)
			tail.pop()
			if b.head == tail {
				b.head = fresh
			}
			return fresh
		}
		fresh := newSegment()
		tail.push(fresh)
		return fresh
	}
	if tail.writableCapacity() < minCapacity {
		fresh := newSegment()
		tail.push(fresh)
		return fresh
	}
	return tail
}

// WriteBuffer moves the first byteCount bytes out of src and appends
// them to b, splicing whole segments across buffers instead of copying
// their contents wherever possible. It panics if byteCount exceeds
// src's length or if src and b are the same Buffer.
func (b *Buffer) WriteBuffer(src *Buffer, byteCount int64) error {
	if src == b {
		panic("segbuf: source and destination buffers must differ")
	}
	if byteCount < 0 || byteCount > src.size {
		panic("segbuf: byteCount out of range")
	}
	for byteCount > 0 {
		s := src.head
		n := int64(s.len())
		if n > byteCount {
			prefix := s.split(int(byteCount))
			if src.head == s {
				src.head = prefix
			}
			s = prefix
			n = byteCount
		}

		next := s.pop()
		if next == nil {
			src.head = nil
		} else if src.head == s {
			src.head = next
		}
		src.size -= n

		if b.head == nil {
			s.next, s.prev = s, s
			b.head = s
		} else {
			b.head.prev.push(s)
			if s.compact() {
				s.pop()
				recycleSegment(s)
			}
		}
		b.size += n
		byteCount -= n
	}
	return nil
}

// Write appends p to the buffer. It always writes the entire slice and
// never returns an error, matching io.Writer for an unbounded in-memory
// sink.
func (b *Buffer) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		tail := b.writableTail(1)
		n := copy(tail.data[tail.limit:], p)
		tail.limit += n
		b.size += int64(n)
		p = p[n:]
	}
	return total, nil
}

// WriteByte appends a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	tail := b.writableTail(1)
	tail.data[tail.limit] = c
	tail.limit++
	b.size++
	return nil
}

// WriteString appends s to the buffer.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Read consumes up to len(p) bytes from the head of the buffer. It
// returns io.EOF once the buffer is empty, matching io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.size == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && b.head != nil {
		head := b.head
		copied := copy(p[n:], head.data[head.pos:head.limit])
		head.pos += copied
		n += copied
		b.size -= int64(copied)
		if head.pos == head.limit {
			b.popHead()
		}
	}
	return n, nil
}

// popHead removes the (now empty) head segment, recycling it if this
// buffer held the only reference.
func (b *Buffer) popHead() {
	head := b.head
	next := head.pop()
	if !head.shared {
		recycleSegment(head)
	}
	b.head = next
}

// ReadByte consumes and returns a single byte from the head of the
// buffer, or io.EOF if the buffer is empty.
func (b *Buffer) ReadByte() (byte, error) {
	if b.head == nil {
		return 0, io.EOF
	}
	head := b.head
	c := head.data[head.pos]
	head.pos++
	b.size--
	if head.pos == head.limit {
		b.popHead()
	}
	return c, nil
}

// Bytes returns a newly allocated copy of the buffer's contents,
// leaving the buffer itself unmodified.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.size)
	if b.head == nil {
		return out
	}
	n := 0
	s := b.head
	for {
		n += copy(out[n:], s.data[s.pos:s.limit])
		s = s.next
		if s == b.head {
			break
		}
	}
	return out
}

// String returns the buffer's contents decoded as UTF-8, without
// consuming them.
func (b *Buffer) String() string { return string(b.Bytes()) }

// Clone returns an independent Buffer with the same contents as b,
// sharing backing arrays copy-on-write. Cloning is O(segment count),
// not O(byte count): no bytes are copied until one of the two buffers
// writes into a shared segment.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{size: b.size}
	if b.head == nil {
		return out
	}
	var prevNew *Segment
	s := b.head
	for {
		c := s.sharedCopy()
		c.limit = s.limit
		if out.head == nil {
			c.next, c.prev = c, c
			out.head = c
		} else {
			prevNew.push(c)
		}
		prevNew = c
		s = s.next
		if s == b.head {
			break
		}
	}
	return out
}

// CopyTo writes a copy of the buffer's entire contents to w without
// consuming them.
func (b *Buffer) CopyTo(w io.Writer) (int64, error) {
	if b.head == nil {
		return 0, nil
	}
	var n int64
	s := b.head
	for {
		written, err := w.Write(s.data[s.pos:s.limit])
		n += int64(written)
		if err != nil {
			return n, err
		}
		s = s.next
		if s == b.head {
			break
		}
	}
	return n, nil
}

// WriteTo implements io.WriterTo: it drains the buffer into w. The
// segment list is handed to w as a single Buffers (net.Buffers) value,
// so a destination that implements the internal vectored-write
// interface net.Buffers.WriteTo recognizes (notably *net.TCPConn) issues
// one writev syscall across every segment instead of one Write call per
// segment; any other io.Writer just sees Buffers.WriteTo fall back to
// looping Write calls, which is no worse than writing segment-by-segment
// directly.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.head == nil {
		return 0, nil
	}
	vec := make(Buffers, 0, 4)
	s := b.head
	for {
		if s.len() > 0 {
			vec = append(vec, s.data[s.pos:s.limit])
		}
		s = s.next
		if s == b.head {
			break
		}
	}
	n, err := vec.WriteTo(w)
	b.discard(n)
	return n, err
}

// discard advances the buffer's read position by n bytes, popping and
// recycling any segment fully consumed along the way. It is used to
// reconcile the buffer's state with bytes a vectored write already
// delivered to their destination.
func (b *Buffer) discard(n int64) {
	for n > 0 && b.head != nil {
		head := b.head
		avail := int64(head.len())
		if avail > n {
			head.pos += int(n)
			b.size -= n
			return
		}
		head.pos = head.limit
		b.size -= avail
		n -= avail
		b.popHead()
	}
}

// ReadFrom implements io.ReaderFrom: it appends r's entire output to
// the buffer, reading directly into segment tails.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	for {
		tail := b.writableTail(1)
		readN, err := r.Read(tail.data[tail.limit:])
		tail.limit += readN
		b.size += int64(readN)
		n += int64(readN)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}

// IndexOf returns the index of the first occurrence of b2 within the
// buffer at or after fromIndex, or -1 if not found.
func (b *Buffer) IndexOf(b2 []byte, fromIndex int64) int64 {
	if len(b2) == 0 {
		return fromIndex
	}
	data := b.Bytes()
	if fromIndex < 0 || fromIndex > int64(len(data)) {
		return -1
	}
	idx := bytes.Index(data[fromIndex:], b2)
	if idx < 0 {
		return -1
	}
	return fromIndex + int64(idx)
}

// RangeEquals reports whether the buffer's bytes starting at offset
// equal the entirety of b2.
func (b *Buffer) RangeEquals(offset int64, b2 []byte) bool {
	if offset < 0 || offset+int64(len(b2)) > b.size {
		return false
	}
	data := b.Bytes()
	return bytes.Equal(data[offset:offset+int64(len(b2))], b2)
}
