// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/readcount"
)

// FramesPerPacket is the number of decoded frames per packet.
const FramesPerPacket = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read returns the number of values decoded, a multiple of Channels().
	Read([]float32) (int, error)
	SetPosition(pos int64) error
	Length() int64
}

type demuxer struct {
	dec    oggReader
	in     *readcount.ReadSeeker
	closer io.Closer

	stream audio.Stream
	pos    int64

	samples []float32
	buf     []byte
}

// Register binds the ogg extensions and the vorbis decoder in reg.
func Register(reg *audio.Registry) {
	for _, ext := range []string{"ogg", "oga"} {
		reg.RegisterFormat(ext, Decoder{})
	}
	reg.RegisterDecoder(audio.CodecVorbis, audio.NewRawCodec)
}

// Decoder opens Ogg Vorbis files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ogg: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// NewDemuxer decodes an Ogg Vorbis stream while demultiplexing it.
// Packets carry interleaved float32 samples.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	in := readcount.New(rs)

	dec, err := oggvorbis.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d := newDemuxerFrom(dec, closer)
	in.Take() // headers do not belong to the first packet
	d.in = in
	return d, nil
}

func newDemuxerFrom(dec oggReader, closer io.Closer) *demuxer {
	rate, ch := dec.SampleRate(), dec.Channels()

	return &demuxer{
		dec:    dec,
		closer: closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        audio.CodecVorbis,
			SampleFormat: audio.SampleF32,
			SampleRate:   rate,
			Channels:     ch,
			TimeBase:     audio.Rational{Num: 1, Den: int64(max(rate, 1))},
		},
		samples: make([]float32, FramesPerPacket*max(ch, 1)),
		buf:     make([]byte, FramesPerPacket*max(ch, 1)*4),
	}
}

func (d *demuxer) Streams() []audio.Stream { return []audio.Stream{d.stream} }

func (d *demuxer) Duration() time.Duration {
	if d.stream.SampleRate <= 0 {
		return 0
	}
	return time.Duration(d.dec.Length()) * time.Second / time.Duration(d.stream.SampleRate)
}

func (d *demuxer) ReadPacket() (audio.Packet, error) {
	ch := d.stream.Channels
	if ch <= 0 {
		return audio.Packet{}, fmt.Errorf("%w: no channels", audio.ErrFatal)
	}

	// Fill a whole packet; the library hands out one vorbis block at a time.
	n := 0
	var err error
	for n < len(d.samples) && err == nil {
		var m int
		m, err = d.dec.Read(d.samples[n:])
		n += m
	}
	n -= n % ch

	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return audio.Packet{}, io.EOF
		}
		return audio.Packet{}, fmt.Errorf("%w: %w", audio.ErrFatal, err)
	}

	for i, v := range d.samples[:n] {
		binary.LittleEndian.PutUint32(d.buf[i*4:], math.Float32bits(v))
	}

	pkt := audio.Packet{
		Data:     d.buf[:n*4],
		PTS:      d.pos,
		Duration: int64(n / ch),
	}
	if d.in != nil {
		pkt.Size = d.in.Take()
	}
	d.pos += pkt.Duration

	return pkt, nil
}

// Seek positions the decoder at sample ts.
func (d *demuxer) Seek(_ int, ts int64) error {
	ts = max(ts, 0)
	if l := d.dec.Length(); l > 0 {
		ts = min(ts, l)
	}

	if err := d.dec.SetPosition(ts); err != nil {
		return fmt.Errorf("vorbis seek: %w", err)
	}
	d.pos = ts
	if d.in != nil {
		d.in.Take()
	}

	return nil
}

func (d *demuxer) Close() error {
	if d.closer == nil {
		return nil
	}

	c := d.closer
	d.closer = nil
	if err := c.Close(); err != nil {
		return fmt.Errorf("closing ogg: %w", err)
	}
	return nil
}
