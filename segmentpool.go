// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"sync"

	"code.hybscloud.com/iox"
)

// MaxSegmentPoolSize is the default total byte budget for the
// process-wide segment pool. It bounds how many segment backing arrays
// are kept warm for reuse; it does not bound how much data a Buffer can
// hold, since segments allocated on a pool miss are never rejected.
const MaxSegmentPoolSize = 64 * 1024

// segmentPool is the process-wide cache of segment backing arrays. It
// wraps a BoundedPool in non-blocking mode: Get() on an empty pool
// returns iox.ErrWouldBlock instead of waiting, and the caller falls
// back to a fresh allocation. Put() on a full pool likewise never
// blocks; the surplus array is simply dropped and left to the garbage
// collector.
type segmentPool struct {
	mu    sync.Mutex
	once  sync.Once
	inner *BoundedPool[*[SegmentSize]byte]
}

var globalSegmentPool = &segmentPool{}

// newSegmentArray allocates a segment's backing array cache-line aligned,
// so that no array starts partway into a cache line it shares with
// another allocation.
func newSegmentArray() *[SegmentSize]byte {
	return (*[SegmentSize]byte)(CacheLineAlignedMem(SegmentSize))
}

func (p *segmentPool) ensure() *BoundedPool[*[SegmentSize]byte] {
	p.once.Do(func() {
		capacity := MaxSegmentPoolSize / SegmentSize
		inner := NewBoundedPool[*[SegmentSize]byte](capacity)
		inner.Fill(newSegmentArray)
		inner.SetNonblock(true)
		p.inner = inner
	})
	return p.inner
}

// newSegment returns a fresh, exclusively-owned, empty Segment. Its
// backing array comes from the pool on a hit, or is allocated directly
// on a miss.
func newSegment() *Segment {
	pool := globalSegmentPool.ensure()
	idx, err := pool.Get()
	if err == nil {
		return &Segment{
			data:      pool.Value(idx),
			owner:     true,
			poolIndex: idx,
		}
	}
	if err != iox.ErrWouldBlock {
		panic(err)
	}
	return &Segment{
		data:      newSegmentArray(),
		owner:     true,
		poolIndex: segmentPoolIndexNone,
	}
}

// recycleSegment returns a no-longer-referenced segment's backing array
// to the pool, or drops it if the segment was never pool-owned or the
// pool is currently full.
func recycleSegment(s *Segment) {
	if s.poolIndex == segmentPoolIndexNone {
		return
	}
	pool := globalSegmentPool.ensure()
	idx := s.poolIndex
	s.poolIndex = segmentPoolIndexNone
	_ = pool.Put(idx)
}

// resetSegmentPoolForTest discards the process-wide segment pool so a
// fresh one is built on next use. Tests that assert on pool occupancy
// call this to avoid interference from other tests sharing the process.
func resetSegmentPoolForTest() {
	globalSegmentPool.mu.Lock()
	defer globalSegmentPool.mu.Unlock()
	globalSegmentPool.once = sync.Once{}
	globalSegmentPool.inner = nil
}
