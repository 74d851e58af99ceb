// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// UnsafeCursor grants direct access to a Buffer's segment data for
// callers that need to avoid the copying Read/Write otherwise impose —
// a checksum routine, a zero-copy parser. Only one UnsafeCursor may be
// acquired on a Buffer at a time: the cursor is released when the
// ReadWrite callback returns, and a nested ReadWrite call panics.
type UnsafeCursor struct {
	buf *Buffer

	// Data is the current segment's backing array, sliced to the
	// segment's live bytes. Offset is this segment's starting offset
	// within the Buffer.
	Data   []byte
	Offset int64

	seg *Segment
}

// ReadWrite acquires a cursor over the buffer for the duration of fn,
// releasing it when fn returns (even on panic).
func (b *Buffer) ReadWrite(fn func(c *UnsafeCursor)) {
	if b.cursorHeld {
		panic("segbuf: buffer already has an open UnsafeCursor")
	}
	b.cursorHeld = true
	defer func() { b.cursorHeld = false }()

	c := &UnsafeCursor{buf: b}
	fn(c)
}

// Seek moves the cursor to the segment containing offset, updating
// Data and Offset. It returns the segment's live byte count.
func (c *UnsafeCursor) Seek(offset int64) int {
	if offset < 0 || offset > c.buf.size {
		panic("segbuf: offset out of range")
	}
	s := c.buf.head
	pos := int64(0)
	for s != nil {
		segLen := int64(s.len())
		if offset < pos+segLen || (offset == pos+segLen && s.next == c.buf.head) {
			c.seg = s
			c.Offset = pos
			c.Data = s.data[s.pos:s.limit]
			return len(c.Data)
		}
		pos += segLen
		s = s.next
		if s == c.buf.head {
			break
		}
	}
	c.seg = nil
	c.Data = nil
	c.Offset = c.buf.size
	return 0
}

// ExpandBuffer grows the buffer by at least minByteCount bytes of
// fresh, writable capacity at the tail and points the cursor at it,
// returning the number of bytes actually made available.
func (c *UnsafeCursor) ExpandBuffer(minByteCount int) int {
	tail := c.buf.writableTail(minByteCount)
	avail := tail.writableCapacity()
	c.seg = tail
	c.Offset = c.buf.size
	c.Data = tail.data[tail.limit : tail.limit+avail]
	tail.limit += avail
	c.buf.size += int64(avail)
	return avail
}

// ResizeBuffer changes the buffer's length to newSize, discarding
// trailing bytes if shrinking or appending zero bytes if growing, and
// repositions the cursor at the new end.
func (c *UnsafeCursor) ResizeBuffer(newSize int64) {
	if newSize < 0 {
		panic("segbuf: negative size")
	}
	if newSize < c.buf.size {
		c.buf.truncateTo(newSize)
		c.Seek(newSize)
		return
	}
	if newSize > c.buf.size {
		grow := newSize - c.buf.size
		for grow > 0 {
			n := int64(c.ExpandBuffer(int(min(grow, SegmentSize))))
			for i := range c.Data {
				c.Data[i] = 0
			}
			grow -= n
		}
		c.buf.truncateTo(newSize)
		c.Seek(newSize)
	}
}
