// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"io"
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestPipe_WriteThenReadAfterClose(t *testing.T) {
	p := segbuf.NewPipe(1024)
	sink := p.Sink()
	src := p.Source()

	if _, err := sink.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("sink.Close: %v", err)
	}

	out := make([]byte, 16)
	n, err := src.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(out[:n]) != "hello" {
		t.Errorf("Read = %q, want %q", out[:n], "hello")
	}

	_, err = src.Read(out)
	if err != io.EOF {
		t.Errorf("Read after drain: err = %v, want io.EOF", err)
	}
}

func TestPipe_NonblockFullReturnsWouldBlock(t *testing.T) {
	p := segbuf.NewPipe(4)
	p.SetNonblock(true)
	sink := p.Sink()

	n, err := sink.Write([]byte("ab"))
	if err != nil || n != 2 {
		t.Fatalf("Write = (%d, %v), want (2, nil)", n, err)
	}
	_, err = sink.Write([]byte("cdef"))
	if err == nil {
		t.Fatal("expected an error when pipe buffer is full in non-blocking mode")
	}
}

func TestPipe_Fold(t *testing.T) {
	p := segbuf.NewPipe(1024)
	sink := p.Sink()

	go func() {
		_, _ = sink.Write([]byte("part1"))
		_, _ = sink.Write([]byte("part2"))
		_ = sink.Close()
	}()

	var got []byte
	err := p.Fold(func(chunk []byte) error {
		got = append(got, chunk...)
		return nil
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if string(got) != "part1part2" {
		t.Errorf("Fold accumulated = %q, want %q", got, "part1part2")
	}
}
