// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/readcount"
)

// frameReader is an interface for goflac.Stream to allow testing
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Seek(sampleNum uint64) (uint64, error)
}

type demuxer struct {
	dec    frameReader
	in     *readcount.ReadSeeker
	closer io.Closer

	stream audio.Stream
	bps    int
	frames int64
	pos    int64
	// skip is the number of leading samples to drop from the next frame,
	// set when a seek lands inside a frame.
	skip int64

	buf []byte
}

// Register binds the flac extension and decoder in reg.
func Register(reg *audio.Registry) {
	reg.RegisterFormat("flac", Decoder{})
	reg.RegisterDecoder(audio.CodecFLAC, audio.NewRawCodec)
}

// Decoder opens FLAC files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening flac: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// NewDemuxer decodes a FLAC stream frame by frame. Each packet holds one
// FLAC frame as planar samples: s16p for streams up to 16 bits, s32p
// otherwise, left justified.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	in := readcount.New(rs)

	stream, err := goflac.NewSeek(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	d, err := newDemuxerFrom(stream, stream.Info, closer)
	if err != nil {
		return nil, err
	}
	in.Take()
	d.in = in

	return d, nil
}

func newDemuxerFrom(dec frameReader, info *meta.StreamInfo, closer io.Closer) (*demuxer, error) {
	bps := int(info.BitsPerSample)
	if bps < 4 || bps > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bps)
	}
	if info.NChannels == 0 {
		return nil, ErrNoChannels
	}

	sf := audio.SampleS16P
	if bps > 16 {
		sf = audio.SampleS32P
	}
	rate := int(info.SampleRate)

	return &demuxer{
		dec:    dec,
		closer: closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        audio.CodecFLAC,
			SampleFormat: sf,
			SampleRate:   rate,
			Channels:     int(info.NChannels),
			TimeBase:     audio.Rational{Num: 1, Den: int64(max(rate, 1))},
		},
		bps:    bps,
		frames: int64(info.NSamples),
	}, nil
}

func (d *demuxer) Streams() []audio.Stream { return []audio.Stream{d.stream} }

func (d *demuxer) Duration() time.Duration {
	if d.stream.SampleRate <= 0 {
		return 0
	}
	return time.Duration(d.frames) * time.Second / time.Duration(d.stream.SampleRate)
}

func (d *demuxer) ReadPacket() (audio.Packet, error) {
	for {
		f, err := d.dec.ParseNext()
		if errors.Is(err, io.EOF) {
			return audio.Packet{}, io.EOF
		}
		if err != nil {
			return audio.Packet{}, fmt.Errorf("%w: %w: %w", audio.ErrFatal, ErrReadFailure, err)
		}

		n := int64(f.BlockSize)
		skip := min(d.skip, n)
		d.skip -= skip
		if skip == n {
			continue
		}

		pkt := audio.Packet{
			Data:     d.planes(f, int(skip)),
			PTS:      d.pos,
			Duration: n - skip,
		}
		if d.in != nil {
			pkt.Size = d.in.Take()
		}
		d.pos += pkt.Duration

		return pkt, nil
	}
}

// planes lays the subframes out channel after channel, starting at sample
// from.
func (d *demuxer) planes(f *frame.Frame, from int) []byte {
	ch := d.stream.Channels
	n := int(f.BlockSize) - from
	width := d.stream.SampleFormat.BytesPerSample()
	size := n * width * ch

	if cap(d.buf) < size {
		d.buf = make([]byte, size)
	}
	d.buf = d.buf[:size]

	pos := 0
	for c := range ch {
		samples := f.Subframes[c].Samples[from : from+n]

		if width == 2 {
			shift := 16 - d.bps
			for _, s := range samples {
				binary.LittleEndian.PutUint16(d.buf[pos:], uint16(s<<shift))
				pos += 2
			}
			continue
		}

		shift := 32 - d.bps
		for _, s := range samples {
			binary.LittleEndian.PutUint32(d.buf[pos:], uint32(s<<shift))
			pos += 4
		}
	}

	return d.buf
}

// Seek positions the demuxer at sample ts. The library lands on the frame
// containing ts; the samples before ts are dropped from the next packet.
func (d *demuxer) Seek(_ int, ts int64) error {
	ts = max(ts, 0)
	if d.frames > 0 && ts >= d.frames {
		ts = d.frames - 1
	}

	start, err := d.dec.Seek(uint64(ts))
	if err != nil {
		return fmt.Errorf("flac seek: %w", err)
	}

	d.skip = max(ts-int64(start), 0)
	d.pos = int64(start) + d.skip
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
		return fmt.Errorf("closing flac: %w", err)
	}
	return nil
}
