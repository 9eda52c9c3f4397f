// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/pcmpack"
)

// FramesPerPacket is the number of sample frames carried by one packet.
const FramesPerPacket = 4096

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// pcmReader is an interface for wav.Decoder to allow testing
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type demuxer struct {
	dec     pcmReader
	restart func() (pcmReader, error)
	closer  io.Closer

	stream audio.Stream
	bps    int
	frames int64
	pos    int64

	intBuf *goaudio.IntBuffer
	pkt    []byte
}

// Register binds the wav extension and the PCM codec in reg.
func Register(reg *audio.Registry) {
	reg.RegisterFormat("wav", Decoder{})
	reg.RegisterFormat("wave", Decoder{})
	reg.RegisterDecoder(audio.CodecPCM, audio.NewRawCodec)
}

// Decoder opens WAV files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// NewDemuxer reads a WAV stream. Packets are only valid until the next
// ReadPacket.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	dec, err := start(rs)
	if err != nil {
		return nil, err
	}

	channels := int(dec.NumChans)
	rate := int(dec.SampleRate)
	if channels < 1 || rate < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	sf, name, ok := sampleFormat(int(dec.BitDepth))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}
	bps := sf.BytesPerSample()

	return &demuxer{
		dec:     dec,
		restart: func() (pcmReader, error) { return start(rs) },
		closer:  closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        audio.CodecPCM,
			CodecName:    name,
			SampleFormat: sf,
			SampleRate:   rate,
			Channels:     channels,
			TimeBase:     audio.Rational{Num: 1, Den: int64(rate)},
		},
		bps:    bps,
		frames: int64(dec.PCMSize / (channels * bps)),
	}, nil
}

// start positions a fresh wav.Decoder at the first PCM sample.
func start(rs io.ReadSeeker) (*wav.Decoder, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding wav: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}

	return dec, nil
}

func sampleFormat(bitDepth int) (audio.SampleFormat, string, bool) {
	switch bitDepth {
	case 8:
		return audio.SampleU8, "pcm_u8", true
	case 16:
		return audio.SampleS16, "pcm_s16le", true
	case 24:
		return audio.SampleS24, "pcm_s24le", true
	case 32:
		return audio.SampleS32, "pcm_s32le", true
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

	channels := d.stream.Channels
	size := pcmpack.Pack(d.packetBuf(n*d.bps), d.intBuf.Data[:n], d.bps)

	pkt := audio.Packet{
		Data:     d.pkt[:size],
		PTS:      d.pos,
		Duration: int64(n / channels),
	}
	d.pos += pkt.Duration

	return pkt, nil
}

// decode reads up to frames whole sample frames into intBuf and returns the
// number of values read.
func (d *demuxer) decode(frames int) (int, error) {
	values := frames * d.stream.Channels

	if d.intBuf == nil || cap(d.intBuf.Data) < values {
		d.intBuf = &goaudio.IntBuffer{
			Data: make([]int, values),
			Format: &goaudio.Format{
				NumChannels: d.stream.Channels,
				SampleRate:  d.stream.SampleRate,
			},
			SourceBitDepth: d.bps * 8,
		}
	}
	d.intBuf.Data = d.intBuf.Data[:values]

	n, err := d.dec.PCMBuffer(d.intBuf)
	return n - n%d.stream.Channels, err
}

func (d *demuxer) packetBuf(n int) []byte {
	if cap(d.pkt) < n {
		d.pkt = make([]byte, n)
	}
	d.pkt = d.pkt[:n]
	return d.pkt
}

// Seek restarts decoding and skips to frame ts, which makes it sample exact.
func (d *demuxer) Seek(_ int, ts int64) error {
	if ts < 0 {
		ts = 0
	}
	if d.frames > 0 && ts > d.frames {
		ts = d.frames
	}

	dec, err := d.restart()
	if err != nil {
		return fmt.Errorf("wav seek: %w", err)
	}
	d.dec = dec
	d.pos = 0

	for d.pos < ts {
		n, err := d.decode(int(min(int64(FramesPerPacket), ts-d.pos)))
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("wav seek: %w", err)
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
		return fmt.Errorf("closing wav: %w", err)
	}
	return nil
}
