// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package segbuf is a portable, allocation-aware byte-streaming core: a
// segmented buffer, typed stream codecs, cooperative timeouts, and a
// filesystem abstraction, meant as the common foundation under network,
// compression, crypto, and filesystem code.
//
// # Segmented buffer
//
// Buffer is an ordered sequence of fixed-size Segments. Segments are
// recycled through a process-wide lock-free pool (see segmentPool) so
// that splicing data between two Buffers can move a Segment by pointer
// instead of copying bytes. A Segment's backing array is shared between
// Buffers via copy-on-write: a shared Segment is never mutated in
// place.
//
// # Streams
//
// Source and Sink are the unbuffered stream contracts; BufferedSource
// and BufferedSink wrap them with a private Buffer to amortize small
// reads and writes. All typed codecs (integers, UTF-8 code points,
// decimal and hexadecimal numerals, line terminators, byte-string
// search via Options) are implemented once on Buffer and re-exported on
// the buffered wrappers.
//
// # Timeouts
//
// Timeout composes an idle timeout and an absolute deadline. AsyncTimeout
// registers a Timeout with a single watchdog goroutine that fires
// onTimeout callbacks for whichever operations have expired, across any
// number of in-flight blocking calls.
//
// # Filesystem
//
// FileSystem is the host-independent contract this package's consumers
// use; PosixFileSystem and FakeFileSystem are the two provided
// implementations. FileHandle is a random-access positional handle
// derived from an open FileSystem entry.
//
// # Dependencies
//
// segbuf depends on:
//   - code.hybscloud.com/iox: semantic control-flow errors (ErrWouldBlock)
//   - code.hybscloud.com/spin: spin-wait/backoff primitives used by
//     BoundedPool, which backs the segment pool, under contention
package segbuf
