// SPDX-License-Identifier: EPL-2.0

package session

// UnitKind tags the shape of the bytes held in a SampleBuffer.
type UnitKind int

const (
	UnitPCM UnitKind = iota
	UnitDirectDSD
	UnitDoP
)

func (k UnitKind) String() string {
	switch k {
	case UnitDirectDSD:
		return "direct-dsd"
	case UnitDoP:
		return "dop"
	default:
		return "pcm"
	}
}

// SampleBuffer is a FIFO of output-format bytes. Its storage grows to fit
// the largest unit seen and is never shrunk.
type SampleBuffer struct {
	kind  UnitKind
	data  []byte
	valid int
}

func (b *SampleBuffer) Len() int       { return b.valid }
func (b *SampleBuffer) Cap() int       { return cap(b.data) }
func (b *SampleBuffer) Kind() UnitKind { return b.kind }

// Reserve returns n writable bytes after the valid ones, tagged kind.
// Reserving a different kind drops whatever is buffered.
func (b *SampleBuffer) Reserve(kind UnitKind, n int) []byte {
	if kind != b.kind {
		b.valid = 0
		b.kind = kind
	}

	need := b.valid + n
	if cap(b.data) < need {
		grown := make([]byte, need)
		copy(grown, b.data[:b.valid])
		b.data = grown
	}
	b.data = b.data[:cap(b.data)]

	return b.data[b.valid:need]
}

// Commit marks n reserved bytes as valid.
func (b *SampleBuffer) Commit(n int) {
	b.valid += n
}

// Drain copies whole frames of frameSize bytes into dst, compacts the
// remainder to the front and returns the number of bytes copied.
func (b *SampleBuffer) Drain(dst []byte, frameSize int) int {
	if frameSize <= 0 || b.valid == 0 {
		return 0
	}

	frames := min(len(dst)/frameSize, b.valid/frameSize)
	n := frames * frameSize
	if n == 0 {
		return 0
	}

	copy(dst, b.data[:n])
	if n != b.valid {
		copy(b.data, b.data[n:b.valid])
	}
	b.valid -= n

	return n
}

// Reset empties the buffer, keeping its storage.
func (b *SampleBuffer) Reset() {
	b.valid = 0
}

func (b *SampleBuffer) release() {
	b.data = nil
	b.valid = 0
}
