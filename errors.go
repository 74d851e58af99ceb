// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Source, Sink, FileSystem and Path
// operations. Callers compare with errors.Is.
var (
	// ErrClosed is returned by any operation attempted on a Source,
	// Sink, FileHandle or Pipe after Close has been called.
	ErrClosed = errors.New("segbuf: closed")

	// ErrInvalidArgument reports a caller-supplied value that is out of
	// range. No operation in this package returns it; out-of-range
	// arguments such as a negative byteCount panic instead.
	ErrInvalidArgument = errors.New("segbuf: invalid argument")

	// ErrCanceled is the sentinel that every *TimeoutError matches under
	// errors.Is; it is not returned on its own.
	ErrCanceled = errors.New("segbuf: canceled")

	// ErrNotDirectory is returned by FileSystem operations that require
	// a directory path (list, createDirectories) when the path names a
	// regular file instead.
	ErrNotDirectory = errors.New("segbuf: not a directory")

	// ErrFileNotFound is returned when a FileSystem path does not exist.
	ErrFileNotFound = errors.New("segbuf: no such file")
)

// TimeoutError reports that a blocking read, write or await exceeded
// its Timeout's deadline or idle window.
type TimeoutError struct {
	// Idle is true when the timeout fired because no progress was made
	// within the idle window, false when the absolute deadline passed.
	Idle bool
}

func (e *TimeoutError) Error() string {
	if e.Idle {
		return "segbuf: timeout (idle)"
	}
	return "segbuf: timeout (deadline)"
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrCanceled
}

// NumberFormatError reports that ReadDecimalLong or ReadHexadecimalLong
// rejected malformed input. Value is a bounded
// preview of the offending bytes, never the full input.
type NumberFormatError struct {
	// Value is a short, human-readable preview of the rejected input.
	Value string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("segbuf: number format error: %q", e.Value)
}

// previewLimit bounds the number of bytes quoted in a NumberFormatError
// or a readUtf8LineStrict failure message, so a pathological or
// adversarial input never inflates an error string without limit.
const previewLimit = 32

// preview truncates b to at most previewLimit bytes for inclusion in an
// error message, marking truncation with an ellipsis.
func preview(b []byte) string {
	if len(b) <= previewLimit {
		return string(b)
	}
	return string(b[:previewLimit]) + "..."
}
