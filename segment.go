// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// SegmentSize is the fixed size in bytes of a single Segment's backing
// array. Buffer grows and shrinks by linking and unlinking whole
// segments of this size; data within a segment is addressed by the
// segment's pos/limit window.
const SegmentSize = 8192

// segmentPoolIndexNone marks a Segment whose backing array was allocated
// directly rather than handed out by the process-wide segment pool. Such
// a segment is simply garbage-collected on recycle instead of returned
// to the pool.
const segmentPoolIndexNone = -1

// Segment is one node of a Buffer's circular, doubly-linked list of
// fixed-size byte blocks. Bytes in data[pos:limit] are the segment's
// live, readable content; data[limit:] is writable capacity.
//
// A segment's backing array can be shared by more than one Buffer (see
// Buffer.Clone); ByteString always holds its own copy of the bytes and
// never shares a segment. A shared segment's bytes are
// copy-on-write: a writer must split off or copy the shared region
// before mutating it. owner is false exactly when the segment may be
// referenced by another owner and must not be written in place.
type Segment struct {
	data *[SegmentSize]byte

	pos   int
	limit int

	shared bool
	owner  bool

	// poolIndex is the index this segment's backing array occupies in
	// the process-wide segment pool, or segmentPoolIndexNone if the
	// array was allocated fresh on a pool miss.
	poolIndex int

	prev, next *Segment
}

// len returns the number of live, readable bytes in the segment.
func (s *Segment) len() int {
	return s.limit - s.pos
}

// writableCapacity returns the number of bytes that can still be
// written into the segment's tail without exceeding SegmentSize.
func (s *Segment) writableCapacity() int {
	return SegmentSize - s.limit
}

// push inserts newSegment immediately after s in the circular list and
// returns newSegment.
func (s *Segment) push(newSegment *Segment) *Segment {
	newSegment.prev = s
	newSegment.next = s.next
	s.next.prev = newSegment
	s.next = newSegment
	return newSegment
}

// pop removes s from its circular list, returning the segment that
// followed it. If s was the sole member, pop returns nil and leaves s's
// links untouched.
func (s *Segment) pop() *Segment {
	next := s.next
	if next == s {
		return nil
	}
	s.prev.next = s.next
	s.next.prev = s.prev
	s.next = nil
	s.prev = nil
	return next
}

// split partitions the segment so that the first byteCount bytes of its
// live data remain in a new segment inserted before s, and the
// remaining bytes stay in s. Returns the new prefix segment.
//
// If byteCount is below splitCopyThreshold, the prefix is a physical
// copy in a fresh segment. Otherwise both halves reference the same
// backing array: both are marked shared and neither remains an owner
// (see sharedCopy). Whether s is already shared does not change this
// choice.
func (s *Segment) split(byteCount int) *Segment {
	if byteCount <= 0 || byteCount > s.len() {
		panic("byteCount out of range")
	}

	var prefix *Segment
	if byteCount >= splitCopyThreshold {
		prefix = s.sharedCopy()
	} else {
		prefix = newSegment()
		copy(prefix.data[:], s.data[s.pos:s.pos+byteCount])
	}

	prefix.limit = prefix.pos + byteCount
	s.pos += byteCount
	s.prev.push(prefix)
	return prefix
}

// splitCopyThreshold is the minimum byte count at which splitting a
// segment shares the backing array (copy-on-write) instead of copying
// the bytes into a fresh segment outright. Below this threshold a copy
// is cheaper than the bookkeeping needed to track a shared array.
const splitCopyThreshold = 1024

// sharedCopy returns a new segment that shares this segment's backing
// array. Both the original and the copy are marked non-owning; the
// first writer to either must compact or copy before mutating.
func (s *Segment) sharedCopy() *Segment {
	s.shared = true
	s.owner = false
	return &Segment{
		data:      s.data,
		pos:       s.pos,
		limit:     s.pos,
		shared:    true,
		owner:     false,
		poolIndex: segmentPoolIndexNone,
	}
}

// unsharedCopy returns a new, exclusively-owned segment with the same
// live bytes as s, using a fresh backing array from the segment pool.
func (s *Segment) unsharedCopy() *Segment {
	fresh := newSegment()
	copy(fresh.data[:], s.data[s.pos:s.limit])
	fresh.pos = 0
	fresh.limit = s.len()
	return fresh
}

// compact attempts to merge s's live bytes into its predecessor's
// writable tail, avoiding an extra segment when the data would fit.
// Returns true if the merge happened and s should be dropped.
func (s *Segment) compact() bool {
	if s.prev == s {
		return false
	}
	if !s.prev.owner {
		return false
	}
	byteCount := s.len()
	available := SegmentSize - s.prev.len()
	if byteCount > available {
		return false
	}
	s.writeTo(s.prev, byteCount)
	return true
}

// writeTo copies byteCount bytes from the head of s into the writable
// tail of dst, compacting dst first if its tail lacks room.
func (s *Segment) writeTo(dst *Segment, byteCount int) {
	if !dst.owner {
		panic("cannot write to a shared segment")
	}
	if dst.limit+byteCount > SegmentSize {
		if dst.shared {
			panic("cannot compact a shared segment")
		}
		if dst.limit+byteCount-dst.pos > SegmentSize {
			panic("byteCount out of range")
		}
		copy(dst.data[:], dst.data[dst.pos:dst.limit])
		dst.limit -= dst.pos
		dst.pos = 0
	}

	copy(dst.data[dst.limit:], s.data[s.pos:s.pos+byteCount])
	dst.limit += byteCount
	s.pos += byteCount
}
