// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Stream describes one elementary stream of an opened container.
type Stream struct {
	Index int
	Kind  MediaKind
	Codec CodecID
	// CodecName overrides Codec.String() when the backend knows a more
	// precise name (e.g. "pcm_s16be").
	CodecName string

	// SampleFormat is the layout of the frames the stream's decoder produces.
	SampleFormat SampleFormat
	SampleRate   int
	Channels     int

	// TimeBase is the unit of Packet.Duration, Packet.PTS and Demuxer.Seek.
	TimeBase Rational
}

// Name returns the canonical codec name of the stream.
func (s Stream) Name() string {
	if s.CodecName != "" {
		return s.CodecName
	}
	return s.Codec.String()
}

// Packet is one demultiplexed unit of compressed (or raw) payload.
type Packet struct {
	StreamIndex int
	Data        []byte
	// PTS and Duration are in the stream time base; Duration is 0 when unknown.
	PTS      int64
	Duration int64
	// Size is the number of container bytes the packet was read from, when
	// it differs from len(Data) (backends that decode while demuxing).
	Size int
}

// Bytes returns the container size of the packet.
func (p Packet) Bytes() int {
	if p.Size > 0 {
		return p.Size
	}
	return len(p.Data)
}

// Frame is one decoded unit of samples.
// Packed formats carry a single plane, planar formats one plane per channel.
type Frame struct {
	Format    SampleFormat
	Channels  int
	NbSamples int
	Planes    [][]byte
}

// Demuxer is an opened media handle.
type Demuxer interface {
	Streams() []Stream
	// Duration of the whole container, 0 when unknown.
	Duration() time.Duration
	// ReadPacket returns the next packet of any stream.
	// io.EOF ends the stream, errors wrapping ErrFatal cannot be retried,
	// every other error is transient.
	ReadPacket() (Packet, error)
	// Seek positions the demuxer at the nearest packet boundary at or
	// before ts, expressed in the time base of the given stream.
	Seek(stream int, ts int64) error
	Close() error
}

// Codec turns packets into frames using a submit/receive protocol.
type Codec interface {
	// SendPacket submits input. It returns ErrAgain while a previously
	// submitted packet still has frames to be received.
	SendPacket(pkt Packet) error
	// ReceiveFrame fills f with the next decoded frame. It returns
	// ErrAgain when more input is needed.
	ReceiveFrame(f *Frame) error
	// Reset drops any buffered input and output.
	Reset()
	Close() error
}

// Opener opens a local file as a Demuxer.
type Opener interface {
	Open(path string) (Demuxer, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Demuxer, error)

func (f OpenerFunc) Open(path string) (Demuxer, error) { return f(path) }

// DecoderFactory allocates a codec configured from stream parameters.
type DecoderFactory func(s Stream) (Codec, error)

// Registry of demuxers by file extension and decoders by codec id.
type Registry struct {
	formats  map[string]Opener
	decoders map[CodecID]DecoderFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		formats:  make(map[string]Opener),
		decoders: make(map[CodecID]DecoderFactory),
		mtx:      &sync.Mutex{},
	}
}

// RegisterFormat binds an extension (without the dot, case-insensitive) to an opener.
func (r *Registry) RegisterFormat(ext string, o Opener) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.formats[strings.ToLower(ext)] = o
}

func (r *Registry) Format(ext string) (Opener, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	o, ok := r.formats[strings.ToLower(ext)]
	return o, ok
}

// FormatForPath looks the opener up by the extension of path.
func (r *Registry) FormatForPath(path string) (Opener, bool) {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:] // drop dot
	}
	return r.Format(ext)
}

func (r *Registry) RegisterDecoder(id CodecID, f DecoderFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.decoders[id] = f
}

// FindDecoder returns the decoder factory for a codec id.
func (r *Registry) FindDecoder(id CodecID) (DecoderFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.decoders[id]
	return f, ok
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
