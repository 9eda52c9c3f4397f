// SPDX-License-Identifier: EPL-2.0

// Package readcount measures how many bytes a decoder pulls from its input.
package readcount

import "io"

// ReadSeeker counts bytes read through it.
type ReadSeeker struct {
	rs io.ReadSeeker
	n  int64
}

func New(rs io.ReadSeeker) *ReadSeeker {
	return &ReadSeeker{rs: rs}
}

func (r *ReadSeeker) Read(p []byte) (int, error) {
	n, err := r.rs.Read(p)
	r.n += int64(n)
	return n, err
}

func (r *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return r.rs.Seek(offset, whence)
}

// Take returns the bytes read since the previous Take.
func (r *ReadSeeker) Take() int {
	n := r.n
	r.n = 0
	return int(n)
}
