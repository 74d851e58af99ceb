// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "io"

// Source is the unbuffered read contract: a producer of bytes that
// knows nothing about the structure of what it produces. It is the
// supertype of file, socket and in-memory readers.
//
// Read behaves like io.Reader: it returns (0, io.EOF) at end of stream
// and never returns (0, nil). Implementations that wrap a non-blocking
// descriptor may return iox.ErrWouldBlock instead of blocking.
type Source interface {
	io.Reader
	io.Closer

	// Timeout returns the Timeout governing this Source's blocking
	// operations, or nil if it has none.
	Timeout() *Timeout
}

// Sink is the unbuffered write contract: a consumer of bytes with no
// knowledge of their structure.
type Sink interface {
	io.Writer
	io.Closer

	// Flush pushes any data buffered below this Sink to its ultimate
	// destination. Sinks with no internal buffering may implement this
	// as a no-op.
	Flush() error

	// Timeout returns the Timeout governing this Sink's blocking
	// operations, or nil if it has none.
	Timeout() *Timeout
}

// Buffer satisfies Source and Sink directly (see buffer.go); no
// adapter type is needed to pass a *Buffer wherever either is expected.
var (
	_ Source = (*Buffer)(nil)
	_ Sink   = (*Buffer)(nil)
)

// NewSource wraps an io.Reader as a Source. If r already implements
// io.Closer it is used for Close; otherwise Close is a no-op. If r
// implements Timeout() *Timeout that method is used; otherwise the
// Source reports no timeout.
func NewSource(r io.Reader) Source {
	if s, ok := r.(Source); ok {
		return s
	}
	return &readerSource{r: r}
}

type readerSource struct {
	r io.Reader
}

func (s *readerSource) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *readerSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *readerSource) Timeout() *Timeout {
	if t, ok := s.r.(interface{ Timeout() *Timeout }); ok {
		return t.Timeout()
	}
	return nil
}

// NewSink wraps an io.Writer as a Sink, mirroring NewSource.
func NewSink(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &writerSink{w: w}
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *writerSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *writerSink) Flush() error {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (s *writerSink) Timeout() *Timeout {
	if t, ok := s.w.(interface{ Timeout() *Timeout }); ok {
		return t.Timeout()
	}
	return nil
}
