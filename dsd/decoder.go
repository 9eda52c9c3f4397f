// SPDX-License-Identifier: EPL-2.0

package dsd

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/ik5/audpull/audio"
)

// levels maps a DSD byte to the mean of its eight one-bit samples in [-1, 1].
var levels = func() [256]float32 {
	var t [256]float32
	for i := range t {
		t[i] = float32(2*bits.OnesCount8(uint8(i))-8) / 8
	}
	return t
}()

// Decoder converts DSD packets to planar float PCM, one output sample per
// DSD byte (an 8-tap boxcar decimation).
type Decoder struct {
	channels int
	planar   bool

	pending []byte
	has     bool
	planes  [][]byte
}

// NewDecoder is an audio.DecoderFactory for the DSD codec ids.
func NewDecoder(s audio.Stream) (audio.Codec, error) {
	if s.Codec.DSD() == audio.DSDNone {
		return nil, fmt.Errorf("dsd: %s is not a DSD codec", s.Codec)
	}
	if s.Channels <= 0 {
		return nil, fmt.Errorf("dsd: invalid channel count %d", s.Channels)
	}

	return &Decoder{
		channels: s.Channels,
		planar:   s.Codec == audio.CodecDSDLSBFPlanar || s.Codec == audio.CodecDSDMSBFPlanar,
		planes:   make([][]byte, s.Channels),
	}, nil
}

func (d *Decoder) SendPacket(pkt audio.Packet) error {
	if d.has {
		return audio.ErrAgain
	}
	if len(pkt.Data) < d.channels {
		return fmt.Errorf("%w: %d bytes", audio.ErrInvalidFrameSize, len(pkt.Data))
	}

	d.pending = pkt.Data
	d.has = true
	return nil
}

func (d *Decoder) ReceiveFrame(f *audio.Frame) error {
	if !d.has {
		return audio.ErrAgain
	}
	d.has = false

	n := len(d.pending) / d.channels

	for c := range d.channels {
		if cap(d.planes[c]) < n*4 {
			d.planes[c] = make([]byte, n*4)
		}
		plane := d.planes[c][:n*4]

		for i := range n {
			var b byte
			if d.planar {
				b = d.pending[c*n+i]
			} else {
				b = d.pending[i*d.channels+c]
			}
			binary.LittleEndian.PutUint32(plane[i*4:], math.Float32bits(levels[b]))
		}
		d.planes[c] = plane
	}

	f.Format = audio.SampleF32P
	f.Channels = d.channels
	f.NbSamples = n
	f.Planes = append(f.Planes[:0], d.planes...)

	return nil
}

func (d *Decoder) Reset() {
	d.pending = nil
	d.has = false
}

func (d *Decoder) Close() error {
	d.Reset()
	return nil
}
