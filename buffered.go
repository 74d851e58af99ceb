// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"time"

	"code.hybscloud.com/iox"
)

// RetryOption configures how a BufferedSource or BufferedSink reacts
// when its underlying Source/Sink is non-blocking and reports
// iox.ErrWouldBlock. With no options, the caller's goroutine is blocked
// with an adaptive backoff, mirroring framer's default retry behavior.
type RetryOption func(*retryPolicy)

type retryPolicy struct {
	nonblock   bool
	retryDelay time.Duration
}

// WithNonblock makes Request/Require/Flush return iox.ErrWouldBlock
// immediately instead of retrying when the underlying Source/Sink would
// block.
func WithNonblock() RetryOption {
	return func(p *retryPolicy) { p.nonblock = true }
}

// WithBlock is the default: the caller's goroutine retries with an
// adaptive backoff until data is available or an error other than
// iox.ErrWouldBlock occurs.
func WithBlock() RetryOption {
	return func(p *retryPolicy) { p.nonblock = false }
}

// WithRetryDelay overrides the fixed delay between retry attempts. A
// delay of 0 (the default) uses iox.Backoff's adaptive schedule
// instead of a fixed interval.
func WithRetryDelay(d time.Duration) RetryOption {
	return func(p *retryPolicy) { p.retryDelay = d }
}

// BufferedSource wraps a Source with an internal Buffer, amortizing
// many small reads into few underlying Reads. It is the contract that
// line-oriented and length-prefixed protocol decoders are built on.
type BufferedSource struct {
	src    Source
	buf    Buffer
	policy retryPolicy
	closed bool
}

// NewBufferedSource wraps src with a read-ahead Buffer.
func NewBufferedSource(src Source, opts ...RetryOption) *BufferedSource {
	bs := &BufferedSource{src: src}
	for _, opt := range opts {
		opt(&bs.policy)
	}
	return bs
}

// Buffer exposes the BufferedSource's internal Buffer directly, for
// callers that need to inspect or consume buffered-but-not-yet-returned
// bytes (peeking, Options.Select).
func (s *BufferedSource) Buffer() *Buffer { return &s.buf }

// fill reads at least one more chunk from the underlying Source into
// the internal buffer, applying the retry policy on iox.ErrWouldBlock.
func (s *BufferedSource) fill() error {
	var bo iox.Backoff
	for {
		n, err := s.buf.ReadFrom(io.LimitReader(s.src, SegmentSize))
		if n > 0 {
			return nil
		}
		if err == nil {
			return io.EOF
		}
		if err == iox.ErrWouldBlock {
			if s.policy.nonblock {
				return err
			}
			if s.policy.retryDelay > 0 {
				time.Sleep(s.policy.retryDelay)
			} else {
				bo.Wait()
			}
			continue
		}
		return err
	}
}

// Request ensures the buffer holds at least byteCount bytes, reading
// more from the underlying Source as needed. It returns false (with a
// nil error) if the underlying Source reaches end of stream first.
func (s *BufferedSource) Request(byteCount int64) (bool, error) {
	for s.buf.Len() < byteCount {
		err := s.fill()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// Require is like Request but returns io.ErrUnexpectedEOF instead of
// false when the Source is exhausted before byteCount bytes arrive.
func (s *BufferedSource) Require(byteCount int64) error {
	ok, err := s.Request(byteCount)
	if err != nil {
		return err
	}
	if !ok {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// Read implements Source, first draining the internal buffer before
// reading from the underlying Source.
func (s *BufferedSource) Read(p []byte) (int, error) {
	if s.buf.Len() == 0 {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	return s.buf.Read(p)
}

// Close closes the underlying Source.
func (s *BufferedSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// Timeout returns the underlying Source's Timeout.
func (s *BufferedSource) Timeout() *Timeout { return s.src.Timeout() }

// ReadByte consumes and returns one byte, filling the buffer if empty.
func (s *BufferedSource) ReadByte() (byte, error) {
	if ok, err := s.Request(1); err != nil {
		return 0, err
	} else if !ok {
		return 0, io.EOF
	}
	return s.buf.ReadByte()
}

// ReadUtf8Line reads a line the way Buffer.ReadUtf8Line does, filling
// the buffer as needed until a terminator or end of stream is found.
func (s *BufferedSource) ReadUtf8Line() (string, error) {
	for {
		if idx := s.buf.IndexOf([]byte{'\n'}, 0); idx != -1 {
			return s.buf.ReadUtf8Line()
		}
		err := s.fill()
		if err == io.EOF {
			return s.buf.ReadUtf8Line()
		}
		if err != nil {
			return "", err
		}
	}
}

// peekByteAt returns the byte at the given offset from the front of
// the internal buffer without consuming anything, requiring more input
// from the underlying Source if necessary.
func (s *BufferedSource) peekByteAt(offset int) (byte, error) {
	if ok, err := s.Request(int64(offset) + 1); err != nil {
		return 0, err
	} else if !ok {
		return 0, io.EOF
	}
	return s.buf.Bytes()[offset], nil
}

// skip discards the first byteCount bytes of the internal buffer.
func (s *BufferedSource) skip(byteCount int64) error {
	if ok, err := s.Request(byteCount); err != nil {
		return err
	} else if !ok {
		return io.ErrUnexpectedEOF
	}
	_, err := io.CopyN(io.Discard, &s.buf, byteCount)
	return err
}

// Peek returns a *Buffer-backed view of the next byteCount bytes
// without consuming them from the BufferedSource.
func (s *BufferedSource) Peek(byteCount int64) (*Buffer, error) {
	if ok, err := s.Request(byteCount); err != nil {
		return nil, err
	} else if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	peeked := &Buffer{}
	_, _ = peeked.Write(s.buf.Bytes()[:byteCount])
	return peeked, nil
}

// Select consumes the longest matching option registered in opts from
// the front of the stream and returns its index, or -1 if none match.
func (s *BufferedSource) Select(opts *Options) (int, error) {
	return opts.Select(s)
}

// BufferedSink wraps a Sink with an internal Buffer, amortizing many
// small writes into few underlying Writes. Flush must be called (or the
// BufferedSink closed) to guarantee buffered bytes reach the
// destination.
type BufferedSink struct {
	sink   Sink
	buf    Buffer
	policy retryPolicy
	closed bool
}

// NewBufferedSink wraps sink with a write-behind Buffer.
func NewBufferedSink(sink Sink, opts ...RetryOption) *BufferedSink {
	bsk := &BufferedSink{sink: sink}
	for _, opt := range opts {
		opt(&bsk.policy)
	}
	return bsk
}

// Buffer exposes the BufferedSink's internal Buffer directly.
func (s *BufferedSink) Buffer() *Buffer { return &s.buf }

// Write implements Sink, buffering p without necessarily pushing it
// downstream.
func (s *BufferedSink) Write(p []byte) (int, error) {
	n, _ := s.buf.Write(p)
	if s.buf.Len() >= SegmentSize {
		if err := s.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Flush pushes all buffered bytes to the underlying Sink, retrying on
// iox.ErrWouldBlock per the configured RetryOption.
func (s *BufferedSink) Flush() error {
	var bo iox.Backoff
	for s.buf.Len() > 0 {
		n, err := s.buf.WriteTo(s.sink)
		if n > 0 {
			continue
		}
		if err == iox.ErrWouldBlock {
			if s.policy.nonblock {
				return err
			}
			if s.policy.retryDelay > 0 {
				time.Sleep(s.policy.retryDelay)
			} else {
				bo.Wait()
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return s.sink.Flush()
}

// Close flushes any remaining buffered bytes and closes the underlying
// Sink.
func (s *BufferedSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.Flush(); err != nil {
		return err
	}
	return s.sink.Close()
}

// Timeout returns the underlying Sink's Timeout.
func (s *BufferedSink) Timeout() *Timeout { return s.sink.Timeout() }
