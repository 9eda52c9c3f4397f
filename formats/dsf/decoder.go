// SPDX-License-Identifier: EPL-2.0

package dsf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/dsd"
)

// On-disk chunk layouts, little endian.
type dsdChunk struct {
	ID             [4]byte
	Size           uint64
	FileSize       uint64
	MetadataOffset uint64
}

type fmtChunk struct {
	ID            [4]byte
	Size          uint64
	Version       uint32
	FormatID      uint32
	ChannelType   uint32
	Channels      uint32
	SampleFreq    uint32
	BitsPerSample uint32
	SampleCount   uint64 // per channel, in bits
	BlockSize     uint32 // per channel
	Reserved      uint32
}

type dataHeader struct {
	ID   [4]byte
	Size uint64
}

const (
	maxChannels = 6
	// formatDSDRaw is the only format id DSF defines.
	formatDSDRaw = 0
)

// Register binds the dsf extension and the DSD decoders in reg.
func Register(reg *audio.Registry) {
	reg.RegisterFormat("dsf", Decoder{})
	reg.RegisterDecoder(audio.CodecDSDLSBFPlanar, dsd.NewDecoder)
	reg.RegisterDecoder(audio.CodecDSDMSBFPlanar, dsd.NewDecoder)
}

// Decoder opens DSF files as demuxers.
type Decoder struct{}

func (Decoder) Open(path string) (audio.Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dsf: %w", err)
	}

	d, err := newDemuxer(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

type demuxer struct {
	rs     io.ReadSeeker
	closer io.Closer

	stream audio.Stream
	frames int64 // DSD bytes per channel carrying samples

	dataOffset int64
	groups     int64 // blocks per channel in the data chunk
	block      int64
	seekNeeded bool

	buf []byte
}

// NewDemuxer parses a DSF stream. Each packet is one block per channel,
// back to back, in the file's bit order.
func NewDemuxer(rs io.ReadSeeker) (audio.Demuxer, error) {
	return newDemuxer(rs, nil)
}

func newDemuxer(rs io.ReadSeeker, closer io.Closer) (*demuxer, error) {
	var dc dsdChunk
	if err := binary.Read(rs, binary.LittleEndian, &dc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDSFFile, err)
	}
	if string(dc.ID[:]) != "DSD " {
		return nil, ErrNotDSFFile
	}

	if _, err := rs.Seek(int64(dc.Size), io.SeekStart); err != nil {
		return nil, fmt.Errorf("dsf: %w", err)
	}

	var fc fmtChunk
	if err := binary.Read(rs, binary.LittleEndian, &fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDSFFile, err)
	}
	if string(fc.ID[:]) != "fmt " {
		return nil, ErrNotDSFFile
	}
	if err := validate(fc); err != nil {
		return nil, err
	}

	dataAt := int64(dc.Size + fc.Size)
	if _, err := rs.Seek(dataAt, io.SeekStart); err != nil {
		return nil, fmt.Errorf("dsf: %w", err)
	}

	var dh dataHeader
	if err := binary.Read(rs, binary.LittleEndian, &dh); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDSDData, err)
	}
	if string(dh.ID[:]) != "data" || dh.Size <= 12 {
		return nil, ErrNoDSDData
	}

	ch := int(fc.Channels)
	group := int64(dsd.BlockSize * ch)
	groups := int64(dh.Size-12) / group
	if groups == 0 {
		return nil, ErrNoDSDData
	}

	codec := audio.CodecDSDMSBFPlanar
	if fc.BitsPerSample == 1 {
		codec = audio.CodecDSDLSBFPlanar
	}
	rate := int(fc.SampleFreq / 8)

	return &demuxer{
		rs:     rs,
		closer: closer,
		stream: audio.Stream{
			Kind:         audio.MediaAudio,
			Codec:        codec,
			SampleFormat: audio.SampleF32P,
			SampleRate:   rate,
			Channels:     ch,
			TimeBase:     audio.Rational{Num: 1, Den: int64(rate)},
		},
		frames:     min(int64((fc.SampleCount+7)/8), groups*dsd.BlockSize),
		dataOffset: dataAt + 12,
		groups:     groups,
		buf:        make([]byte, group),
	}, nil
}

func validate(fc fmtChunk) error {
	if fc.FormatID != formatDSDRaw {
		return fmt.Errorf("%w: format id %d", ErrUnsupportedDSFFormat, fc.FormatID)
	}
	if fc.Channels == 0 || fc.Channels > maxChannels {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedDSFFormat, fc.Channels)
	}
	if fc.SampleFreq < 8 || fc.SampleFreq%8 != 0 {
		return fmt.Errorf("%w: sampling frequency %d", ErrUnsupportedDSFFormat, fc.SampleFreq)
	}
	if fc.BitsPerSample != 1 && fc.BitsPerSample != 8 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitOrder, fc.BitsPerSample)
	}
	if fc.BlockSize != dsd.BlockSize {
		return fmt.Errorf("%w: %d", ErrUnsupportedBlockSize, fc.BlockSize)
	}
	return nil
}

func (d *demuxer) Streams() []audio.Stream { return []audio.Stream{d.stream} }

func (d *demuxer) Duration() time.Duration {
	return time.Duration(d.frames) * time.Second / time.Duration(d.stream.SampleRate)
}

func (d *demuxer) ReadPacket() (audio.Packet, error) {
	pts := d.block * dsd.BlockSize
	if d.block >= d.groups || pts >= d.frames {
		return audio.Packet{}, io.EOF
	}

	if d.seekNeeded {
		if _, err := d.rs.Seek(d.dataOffset+d.block*int64(len(d.buf)), io.SeekStart); err != nil {
			return audio.Packet{}, fmt.Errorf("%w: %w", audio.ErrFatal, err)
		}
		d.seekNeeded = false
	}

	if _, err := io.ReadFull(d.rs, d.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Packet{}, io.EOF
		}
		// position unknown after a failed read
		d.seekNeeded = true
		return audio.Packet{}, fmt.Errorf("reading dsf block %d: %w", d.block, err)
	}
	d.block++

	// The final block is zero padded; Duration counts real samples only.
	return audio.Packet{
		Data:     d.buf,
		PTS:      pts,
		Duration: min(dsd.BlockSize, d.frames-pts),
	}, nil
}

// Seek positions the demuxer on the block holding ts.
func (d *demuxer) Seek(_ int, ts int64) error {
	block := max(ts, 0) / dsd.BlockSize
	d.block = min(block, d.groups)
	d.seekNeeded = true
	return nil
}

func (d *demuxer) Close() error {
	if d.closer == nil {
		return nil
	}

	c := d.closer
	d.closer = nil
	if err := c.Close(); err != nil {
		return fmt.Errorf("closing dsf: %w", err)
	}
	return nil
}
