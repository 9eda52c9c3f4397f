// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrAgain is the transient "try again" signal of the submit/receive protocol.
	ErrAgain = errors.New("resource temporarily unavailable")
	// ErrFatal marks a packet read failure that must not be retried.
	ErrFatal = errors.New("fatal read error")

	ErrInvalidFrameSize = errors.New("packet size must be multiple of frame size")
	ErrClosed           = errors.New("codec is closed")
)
