// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/readcount"
)

// FramesPerPacket is the number of decoded stereo frames per packet.
const FramesPerPacket = 1152 * 4

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels  = 2
	frameSize = channels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type demuxer struct {
	dec    mp3Reader
	in     *readcount.ReadSeeker
	closer io.Closer

	stream audio.Stream
	frames int64
	pos    int64
	buf    []byte
}

// Register binds the mp3 extension and decoder in reg.
func Register(reg *audio.Registry) {
	reg.RegisterFormat("mp3", Decoder{})
	reg.RegisterDecoder(audio.CodecMP3, audio.NewRawCodec)
}

// Decoder opens MP3 files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mp3: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// NewDemuxer decodes an MP3 stream while demultiplexing it: packets carry
// interleaved S16 stereo samples and are only valid until the next
// ReadPacket.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	in := readcount.New(rs)

	dec, err := gomp3.NewDecoder(in)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d := newDemuxerFrom(dec, closer)
	d.in = in
	return d, nil
}

func newDemuxerFrom(dec mp3Reader, closer io.Closer) *demuxer {
	rate := dec.SampleRate()

	var frames int64
	if n := dec.Length(); n > 0 {
		frames = n / frameSize
	}

	return &demuxer{
		dec:    dec,
		closer: closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        audio.CodecMP3,
			SampleFormat: audio.SampleS16,
			SampleRate:   rate,
			Channels:     channels,
			TimeBase:     audio.Rational{Num: 1, Den: int64(rate)},
		},
		frames: frames,
		buf:    make([]byte, FramesPerPacket*frameSize),
	}
}

func (d *demuxer) Streams() []audio.Stream { return []audio.Stream{d.stream} }

func (d *demuxer) Duration() time.Duration {
	if d.stream.SampleRate <= 0 {
		return 0
	}
	return time.Duration(d.frames) * time.Second / time.Duration(d.stream.SampleRate)
}

func (d *demuxer) ReadPacket() (audio.Packet, error) {
	n, err := io.ReadFull(d.dec, d.buf)
	n -= n % frameSize

	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Packet{}, io.EOF
		}
		return audio.Packet{}, fmt.Errorf("%w: %w", audio.ErrFatal, err)
	}

	pkt := audio.Packet{
		Data:     d.buf[:n],
		PTS:      d.pos,
		Duration: int64(n / frameSize),
	}
	if d.in != nil {
		pkt.Size = d.in.Take()
	}
	d.pos += pkt.Duration

	return pkt, nil
}

// Seek positions the decoder at frame ts.
func (d *demuxer) Seek(_ int, ts int64) error {
	ts = max(ts, 0)

	off, err := d.dec.Seek(ts*frameSize, io.SeekStart)
	if err != nil {
		return fmt.Errorf("mp3 seek: %w", err)
	}
	d.pos = off / frameSize
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
		return fmt.Errorf("closing mp3: %w", err)
	}
	return nil
}
