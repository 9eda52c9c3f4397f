// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/ik5/audpull/audio"
)

// Waveform returns the value of a sample in the range [-1.0, 1.0].
type Waveform func(sample int, channel int) float32

// Silence generates all zeros.
func Silence(int, int) float32 { return 0 }

// Sine generates a sine wave of frequency Hz.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Ramp generates a per-channel counter, which makes every frame unique
// and easy to check after seeking.
func Ramp(sample int, channel int) float32 {
	return float32((sample*8+channel)%32768) / 32768
}

// PCM16 renders frames of wave as interleaved little endian 16-bit samples.
func PCM16(channels, frames int, wave Waveform) []byte {
	out := make([]byte, frames*channels*2)
	for i := range frames {
		for ch := range channels {
			v := int16(wave(i, ch) * math.MaxInt16)
			binary.LittleEndian.PutUint16(out[(i*channels+ch)*2:], uint16(v))
		}
	}
	return out
}

// Packetize slices interleaved data of frameSize byte frames into packets
// of perPacket frames. PTS and Duration count frames.
func Packetize(stream int, data []byte, frameSize, perPacket int) []audio.Packet {
	var pkts []audio.Packet
	step := frameSize * perPacket
	for off := 0; off < len(data); off += step {
		end := min(off+step, len(data))
		pkts = append(pkts, audio.Packet{
			StreamIndex: stream,
			Data:        data[off:end],
			PTS:         int64(off / frameSize),
			Duration:    int64((end - off) / frameSize),
		})
	}
	return pkts
}

// MockDemuxer replays a fixed list of packets. Errors can be scripted to
// be returned before a given packet index.
type MockDemuxer struct {
	streams  []audio.Stream
	duration time.Duration
	packets  []audio.Packet
	errs     map[int][]error

	pos int

	SeekErr   error
	Seeks     []int64
	CloseErr  error
	CloseCall int
}

// NewMockDemuxer creates a demuxer serving packets for streams.
func NewMockDemuxer(streams []audio.Stream, duration time.Duration, packets []audio.Packet) *MockDemuxer {
	return &MockDemuxer{
		streams:  streams,
		duration: duration,
		packets:  packets,
		errs:     make(map[int][]error),
	}
}

// NewPCM16Demuxer serves a single packed S16 stream of frames
// generated by wave, cut into packets of perPacket frames.
func NewPCM16Demuxer(sampleRate, channels, frames, perPacket int, wave Waveform) *MockDemuxer {
	st := audio.Stream{
		Index:        0,
		Kind:         audio.MediaAudio,
		Codec:        audio.CodecPCM,
		CodecName:    "pcm_s16le",
		SampleFormat: audio.SampleS16,
		SampleRate:   sampleRate,
		Channels:     channels,
		TimeBase:     audio.Rational{Num: 1, Den: int64(sampleRate)},
	}
	data := PCM16(channels, frames, wave)
	dur := time.Duration(frames) * time.Second / time.Duration(sampleRate)

	return NewMockDemuxer([]audio.Stream{st}, dur, Packetize(0, data, channels*2, perPacket))
}

// FailAt queues errs to be returned, one per call, before packet i.
func (m *MockDemuxer) FailAt(i int, errs ...error) {
	m.errs[i] = append(m.errs[i], errs...)
}

func (m *MockDemuxer) Streams() []audio.Stream { return m.streams }
func (m *MockDemuxer) Duration() time.Duration { return m.duration }
func (m *MockDemuxer) Packets() []audio.Packet { return m.packets }
func (m *MockDemuxer) Position() int           { return m.pos }

func (m *MockDemuxer) ReadPacket() (audio.Packet, error) {
	if q := m.errs[m.pos]; len(q) > 0 {
		m.errs[m.pos] = q[1:]
		return audio.Packet{}, q[0]
	}
	if m.pos >= len(m.packets) {
		return audio.Packet{}, io.EOF
	}

	pkt := m.packets[m.pos]
	m.pos++
	return pkt, nil
}

// Seek moves to the last packet of stream starting at or before ts.
func (m *MockDemuxer) Seek(stream int, ts int64) error {
	m.Seeks = append(m.Seeks, ts)
	if m.SeekErr != nil {
		return m.SeekErr
	}

	m.pos = 0
	for i, p := range m.packets {
		if p.StreamIndex == stream && p.PTS <= ts {
			m.pos = i
		}
	}
	return nil
}

func (m *MockDemuxer) Close() error {
	m.CloseCall++
	return m.CloseErr
}

// Opener always returns d, whatever the path.
func Opener(d audio.Demuxer) audio.Opener {
	return audio.OpenerFunc(func(string) (audio.Demuxer, error) { return d, nil })
}

// ChunkCodec splits every packet into frames of at most chunk samples and
// refuses new input until they are all received. The payload must be
// packed samples of the stream's format.
type ChunkCodec struct {
	frameSize int
	format    audio.SampleFormat
	channels  int
	chunk     int

	pending []byte
	refuse  bool
	Resets  int
}

// NewChunkCodec returns a DecoderFactory producing ChunkCodecs. With
// refuseFirst the very first packet is refused once with ErrAgain.
func NewChunkCodec(chunk int, refuseFirst bool) audio.DecoderFactory {
	return func(s audio.Stream) (audio.Codec, error) {
		return &ChunkCodec{
			frameSize: s.SampleFormat.BytesPerSample() * s.Channels,
			format:    s.SampleFormat,
			channels:  s.Channels,
			chunk:     chunk,
			refuse:    refuseFirst,
		}, nil
	}
}

func (c *ChunkCodec) SendPacket(pkt audio.Packet) error {
	if c.refuse {
		c.refuse = false
		return audio.ErrAgain
	}
	if len(c.pending) > 0 {
		return audio.ErrAgain
	}
	c.pending = pkt.Data
	return nil
}

func (c *ChunkCodec) ReceiveFrame(f *audio.Frame) error {
	if len(c.pending) < c.frameSize {
		c.pending = nil
		return audio.ErrAgain
	}

	n := min(len(c.pending)/c.frameSize, c.chunk)
	f.Format = c.format
	f.Channels = c.channels
	f.NbSamples = n
	f.Planes = append(f.Planes[:0], c.pending[:n*c.frameSize])
	c.pending = c.pending[n*c.frameSize:]
	return nil
}

func (c *ChunkCodec) Reset() {
	c.pending = nil
	c.Resets++
}

func (c *ChunkCodec) Close() error { return nil }
