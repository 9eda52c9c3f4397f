// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotLocal          = errors.New("network sources are not supported")
	ErrUnknownFormat     = errors.New("no demuxer for file extension")
	ErrNoDecodableStream = errors.New("no decodable audio stream")
	ErrInvalidFormat     = errors.New("invalid stream format")
	ErrNoRegistry        = errors.New("no backend registry")
	ErrClosed            = errors.New("session is closed")
)

// OpenErrorKind classifies open failures.
type OpenErrorKind int

const (
	// OpenUnreadable covers files that cannot be opened or recognized.
	OpenUnreadable OpenErrorKind = iota + 1
	OpenNotLocal
	OpenNoDecodableStream
	OpenInvalidFormat
	OpenCodec
)

func (k OpenErrorKind) String() string {
	switch k {
	case OpenUnreadable:
		return "unreadable"
	case OpenNotLocal:
		return "not local"
	case OpenNoDecodableStream:
		return "no decodable stream"
	case OpenInvalidFormat:
		return "invalid format"
	case OpenCodec:
		return "codec open failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// OpenError is the terminal failure of Open. No session is returned with it.
type OpenError struct {
	Kind OpenErrorKind
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// SeekError reports a rejected seek. The session stays usable, its
// position is undefined until the next successful seek.
type SeekError struct {
	Sample int64
	Err    error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("seek to sample %d: %v", e.Sample, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }
