// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"sync"

	"code.hybscloud.com/iox"
)

// Pipe is an in-process producer/consumer channel: bytes written to its
// Sink become readable from its Source, bounded by maxBufferSize so a
// fast producer cannot grow memory without limit.
//
// Pipe is safe for concurrent use by one producer goroutine and one
// consumer goroutine.
type Pipe struct {
	mu           sync.Mutex
	notEmpty     *sync.Cond
	notFull      *sync.Cond
	buf          Buffer
	maxBufferSize int64
	sinkClosed   bool
	sourceClosed bool
	nonblock     bool
}

// NewPipe returns a Pipe whose internal buffer is capped at
// maxBufferSize bytes.
func NewPipe(maxBufferSize int64) *Pipe {
	p := &Pipe{maxBufferSize: maxBufferSize}
	p.notEmpty = sync.NewCond(&p.mu)
	p.notFull = sync.NewCond(&p.mu)
	return p
}

// SetNonblock enables or disables non-blocking mode. In non-blocking
// mode, Sink.Write returns iox.ErrWouldBlock instead of waiting when
// the buffer is full, and Source.Read returns iox.ErrWouldBlock instead
// of waiting when the buffer is empty and the sink is still open.
func (p *Pipe) SetNonblock(nonblock bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nonblock = nonblock
}

// Source returns the read end of the pipe.
func (p *Pipe) Source() Source { return &pipeSource{p: p} }

// Sink returns the write end of the pipe.
func (p *Pipe) Sink() Sink { return &pipeSink{p: p} }

// Fold drains every byte ever written to the pipe through fn, blocking
// until the Sink end is closed. It is meant for tests and small
// fixed-size protocols, not long-lived streams.
func (p *Pipe) Fold(fn func([]byte) error) error {
	src := p.Source()
	buf := make([]byte, SegmentSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if ferr := fn(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

type pipeSource struct{ p *Pipe }

func (s *pipeSource) Read(out []byte) (int, error) {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.buf.Len() == 0 && !p.sinkClosed {
		if p.sourceClosed {
			return 0, ErrClosed
		}
		if p.nonblock {
			return 0, iox.ErrWouldBlock
		}
		p.notEmpty.Wait()
	}
	if p.buf.Len() == 0 {
		return 0, io.EOF
	}
	n, _ := p.buf.Read(out)
	p.notFull.Broadcast()
	return n, nil
}

func (s *pipeSource) Close() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sourceClosed = true
	p.notFull.Broadcast()
	return nil
}

func (s *pipeSource) Timeout() *Timeout { return nil }

type pipeSink struct{ p *Pipe }

func (s *pipeSink) Write(in []byte) (int, error) {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sinkClosed {
		return 0, ErrClosed
	}
	total := 0
	for len(in) > 0 {
		if p.sourceClosed {
			return total, ErrClosed
		}
		for p.buf.Len() >= p.maxBufferSize {
			if p.nonblock {
				return total, iox.ErrWouldBlock
			}
			p.notFull.Wait()
			if p.sourceClosed {
				return total, ErrClosed
			}
		}
		room := p.maxBufferSize - p.buf.Len()
		n := int64(len(in))
		if n > room {
			n = room
		}
		_, _ = p.buf.Write(in[:n])
		in = in[n:]
		total += int(n)
		p.notEmpty.Broadcast()
	}
	return total, nil
}

func (s *pipeSink) Close() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinkClosed = true
	p.notEmpty.Broadcast()
	return nil
}

func (s *pipeSink) Flush() error      { return nil }
func (s *pipeSink) Timeout() *Timeout { return nil }
