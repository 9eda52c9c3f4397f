// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// RawCodec exposes packets whose payload already is sample data in the
// stream's SampleFormat. Planar payloads hold one equally sized block per
// channel, back to back.
type RawCodec struct {
	format   SampleFormat
	channels int

	pending []byte
	has     bool
	closed  bool
}

// NewRawCodec is a DecoderFactory for raw sample payloads.
func NewRawCodec(s Stream) (Codec, error) {
	if s.SampleFormat.BytesPerSample() == 0 {
		return nil, fmt.Errorf("raw codec: unsupported sample format %s", s.SampleFormat)
	}
	if s.Channels <= 0 {
		return nil, fmt.Errorf("raw codec: invalid channel count %d", s.Channels)
	}

	return &RawCodec{format: s.SampleFormat, channels: s.Channels}, nil
}

func (c *RawCodec) SendPacket(pkt Packet) error {
	if c.closed {
		return ErrClosed
	}
	if c.has {
		return ErrAgain
	}

	frameSize := c.format.BytesPerSample() * c.channels
	if len(pkt.Data) < frameSize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidFrameSize, len(pkt.Data))
	}

	c.pending = pkt.Data
	c.has = true
	return nil
}

func (c *RawCodec) ReceiveFrame(f *Frame) error {
	if c.closed {
		return ErrClosed
	}
	if !c.has {
		return ErrAgain
	}
	c.has = false

	bps := c.format.BytesPerSample()
	nb := len(c.pending) / (bps * c.channels)

	f.Format = c.format
	f.Channels = c.channels
	f.NbSamples = nb
	f.Planes = f.Planes[:0]

	if !c.format.IsPlanar() {
		f.Planes = append(f.Planes, c.pending[:nb*bps*c.channels])
		return nil
	}

	// Trailing bytes that do not form a whole frame are ignored.
	plane := len(c.pending) / c.channels
	for ch := range c.channels {
		f.Planes = append(f.Planes, c.pending[ch*plane:ch*plane+nb*bps])
	}

	return nil
}

func (c *RawCodec) Reset() {
	c.pending = nil
	c.has = false
}

func (c *RawCodec) Close() error {
	c.Reset()
	c.closed = true
	return nil
}
