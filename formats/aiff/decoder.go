// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/pcmpack"
)

// FramesPerPacket is the number of sample frames carried by one packet.
const FramesPerPacket = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type demuxer struct {
	dec     aiffReader
	restart func() (aiffReader, error)
	closer  io.Closer

	stream audio.Stream
	bps    int
	frames int64
	pos    int64

	intBuf *goaudio.IntBuffer
	pkt    []byte
}

// Register binds the AIFF extensions and the PCM codec in reg.
func Register(reg *audio.Registry) {
	for _, ext := range []string{"aif", "aiff", "aifc"} {
		reg.RegisterFormat(ext, Decoder{})
	}
	reg.RegisterDecoder(audio.CodecPCM, audio.NewRawCodec)
}

// Decoder opens AIFF files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening aiff: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// NewDemuxer reads an AIFF stream. Samples are delivered little endian;
// 8-bit samples are shifted to unsigned. Packets are only valid until the
// next ReadPacket.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	dec, err := start(rs)
	if err != nil {
		return nil, err
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	sf, name, ok := sampleFormat(int(dec.BitDepth))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return &demuxer{
		dec:     dec,
		restart: func() (aiffReader, error) { return start(rs) },
		closer:  closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        audio.CodecPCM,
			CodecName:    name,
			SampleFormat: sf,
			SampleRate:   format.SampleRate,
			Channels:     format.NumChannels,
			TimeBase:     audio.Rational{Num: 1, Den: int64(format.SampleRate)},
		},
		bps:    sf.BytesPerSample(),
		frames: int64(dec.NumSampleFrames),
	}, nil
}

func start(rs io.ReadSeeker) (*aiff.Decoder, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	// Read file info
	dec.ReadInfo()

	return dec, nil
}

func sampleFormat(bitDepth int) (audio.SampleFormat, string, bool) {
	switch bitDepth {
	case 8:
		return audio.SampleU8, "pcm_s8", true
	case 16:
		return audio.SampleS16, "pcm_s16be", true
	case 24:
		return audio.SampleS24, "pcm_s24be", true
	case 32:
		return audio.SampleS32, "pcm_s32be", true
	default:
		return audio.SampleNone, "", false
	}
}

func (d *demuxer) Streams() []audio.Stream { return []audio.Stream{d.stream} }

func (d *demuxer) Duration() time.Duration {
	return time.Duration(d.frames) * time.Second / time.Duration(d.stream.SampleRate)
}

func (d *demuxer) ReadPacket() (audio.Packet, error) {
	if d.frames > 0 && d.pos >= d.frames {
		return audio.Packet{}, io.EOF
	}

	want := FramesPerPacket
	if d.frames > 0 {
		want = int(min(int64(want), d.frames-d.pos))
	}

	n, err := d.decode(want)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return audio.Packet{}, fmt.Errorf("%w: %w", audio.ErrFatal, err)
		}
		return audio.Packet{}, io.EOF
	}

	values := d.intBuf.Data[:n]
	if d.bps == 1 {
		// signed to unsigned 8-bit
		for i := range values {
			values[i] += 128
		}
	}

	if cap(d.pkt) < n*d.bps {
		d.pkt = make([]byte, n*d.bps)
	}
	size := pcmpack.Pack(d.pkt[:n*d.bps], values, d.bps)

	pkt := audio.Packet{
		Data:     d.pkt[:size],
		PTS:      d.pos,
		Duration: int64(n / d.stream.Channels),
	}
	d.pos += pkt.Duration

	return pkt, nil
}

func (d *demuxer) decode(frames int) (int, error) {
	values := frames * d.stream.Channels

	// Resize buffer if needed
	if d.intBuf == nil || cap(d.intBuf.Data) < values {
		d.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, values),
			Format: d.dec.Format(),
		}
	}
	d.intBuf.Data = d.intBuf.Data[:values]

	n, err := d.dec.PCMBuffer(d.intBuf)
	return n - n%d.stream.Channels, err
}

// Seek re-reads the file up to frame ts.
func (d *demuxer) Seek(_ int, ts int64) error {
	ts = max(ts, 0)
	if d.frames > 0 {
		ts = min(ts, d.frames)
	}

	dec, err := d.restart()
	if err != nil {
		return fmt.Errorf("aiff seek: %w", err)
	}
	d.dec = dec
	d.pos = 0

	for d.pos < ts {
		n, err := d.decode(int(min(int64(FramesPerPacket), ts-d.pos)))
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("aiff seek: %w", err)
			}
			break
		}
		d.pos += int64(n / d.stream.Channels)
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
		return fmt.Errorf("closing aiff: %w", err)
	}
	return nil
}
