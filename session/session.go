// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/dsd"
)

// Range is a caller supplied sub-track window in output frames.
// End is the last frame of the window, inclusive.
type Range struct {
	Start int64
	End   int64
}

// Window is the playback window in absolute output frames. End < 0 means
// the stream length is unknown and reads are bounded by end of stream only.
type Window struct {
	Start   int64
	End     int64
	Current int64
}

// rescale moves the window from one frame rate to another. The inclusive
// end keeps covering the same span of audio.
func (w *Window) rescale(from, to int) {
	if from <= 0 || to <= 0 || from == to {
		return
	}
	scale := func(v int64) int64 { return v * int64(to) / int64(from) }

	w.Start = scale(w.Start)
	w.Current = scale(w.Current)
	if w.End >= 0 {
		w.End = scale(w.End+1) - 1
	}
}

type options struct {
	cfg    Config
	sink   MetadataSink
	logger Logger
}

// Option configures Open.
type Option func(*options)

// WithConfig sets the configuration snapshot the session starts with.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithMetadataSink receives the codec name and bitrate updates.
func WithMetadataSink(sink MetadataSink) Option {
	return func(o *options) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithLogger overrides the default logger (log.Default()).
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// decodeState is the position in the submit/receive protocol for the
// pending packet.
type decodeState int

const (
	// stateSubmit: the pending packet has not been accepted by the codec yet.
	stateSubmit decodeState = iota
	// stateAwaitingFrame: the codec is polled for the next frame.
	stateAwaitingFrame
	// stateFrameReady: s.frame holds a frame not yet copied to the buffer.
	stateFrameReady
)

type pendingPacket struct {
	pkt       audio.Packet
	remaining int
	// resubmit is set when the codec refused the packet until its
	// buffered frames are received.
	resubmit bool
}

func (p *pendingPacket) active() bool { return p.remaining > 0 }

func (p *pendingPacket) release() { *p = pendingPacket{} }

// Session decodes one audio stream of one local file into a pull stream of
// output-format bytes. A Session must not be used from several goroutines
// at once.
type Session struct {
	path   string
	demux  audio.Demuxer
	stream audio.Stream
	codec  audio.Codec
	source *PacketSource

	cfg    Config
	format OutputFormat
	// endian is the Direct bit order the buffered bytes were written in.
	endian Endian
	// deferred is set while a new output shape waits for the previous
	// one to drain.
	deferred bool

	pending pendingPacket
	state   decodeState
	frame   audio.Frame
	buf     SampleBuffer

	window   Window
	position float64

	sink   MetadataSink
	logger Logger
	closed bool
}

// Open opens uri with the backends of reg and prepares the first audio
// stream that has a decoder. When rng is non-nil and rng.End > 0 the
// playback window is restricted to it and the session is positioned at
// rng.Start. Any failure is returned as *OpenError.
func Open(reg *audio.Registry, uri string, rng *Range, opts ...Option) (*Session, error) {
	o := options{cfg: DefaultConfig(), sink: nopSink{}, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	path, err := LocalPath(uri)
	if err != nil {
		return nil, &OpenError{Kind: OpenNotLocal, Path: uri, Err: err}
	}
	if reg == nil {
		return nil, &OpenError{Kind: OpenUnreadable, Path: path, Err: ErrNoRegistry}
	}

	opener, ok := reg.FormatForPath(path)
	if !ok {
		return nil, &OpenError{Kind: OpenUnreadable, Path: path, Err: ErrUnknownFormat}
	}

	demux, err := opener.Open(path)
	if err != nil {
		return nil, &OpenError{Kind: OpenUnreadable, Path: path, Err: err}
	}

	s := &Session{
		path:   path,
		demux:  demux,
		cfg:    o.cfg,
		sink:   o.sink,
		logger: o.logger,
	}

	if err := s.init(reg, rng); err != nil {
		s.teardown()
		return nil, err
	}

	return s, nil
}

func (s *Session) init(reg *audio.Registry, rng *Range) error {
	stream, factory, ok := selectStream(reg, s.demux.Streams())
	if !ok {
		return &OpenError{Kind: OpenNoDecodableStream, Path: s.path, Err: ErrNoDecodableStream}
	}
	s.stream = stream

	codec, err := factory(stream)
	if err != nil {
		return &OpenError{Kind: OpenCodec, Path: s.path, Err: err}
	}
	s.codec = codec

	bps := stream.SampleFormat.BytesPerSample() * 8
	if bps <= 0 || stream.Channels <= 0 || stream.SampleRate <= 0 {
		return &OpenError{
			Kind: OpenInvalidFormat,
			Path: s.path,
			Err: fmt.Errorf("%w: %d bits, %d channels, %d Hz",
				ErrInvalidFormat, bps, stream.Channels, stream.SampleRate),
		}
	}

	s.sink.SetFileType(stream.Name())
	s.source = newPacketSource(s.demux, stream, s.sink, s.logger)
	s.refreshFormat()

	totalSamples := int64(math.Round(s.demux.Duration().Seconds() * float64(s.format.FrameRate)))

	if rng != nil && rng.End > 0 {
		s.window = Window{Start: rng.Start, End: rng.End, Current: rng.Start}
		if err := s.SeekSample(0); err != nil {
			return &OpenError{Kind: OpenUnreadable, Path: s.path, Err: err}
		}
		return nil
	}

	s.window = Window{Start: 0, End: totalSamples - 1, Current: 0}
	return nil
}

// selectStream picks the first audio stream a decoder is registered for.
func selectStream(reg *audio.Registry, streams []audio.Stream) (audio.Stream, audio.DecoderFactory, bool) {
	for _, st := range streams {
		if st.Kind != audio.MediaAudio {
			continue
		}
		if factory, ok := reg.FindDecoder(st.Codec); ok {
			return st, factory, true
		}
	}
	return audio.Stream{}, nil, false
}

// LocalPath turns uri into a file system path. file:// URIs are accepted,
// any other scheme is rejected with ErrNotLocal.
func LocalPath(uri string) (string, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri, nil
	}
	if !strings.EqualFold(scheme, "file") {
		return "", fmt.Errorf("%w: %s", ErrNotLocal, scheme)
	}

	u, err := url.Parse("file://" + rest)
	if err != nil || u.Path == "" {
		return rest, nil
	}
	return u.Path, nil
}

// refreshFormat re-derives the output format from the stream and the
// current configuration snapshot and reports whether it changed. While
// bytes decoded in the previous shape are still buffered, or a packet is
// partly decoded, the change is deferred and the old shape is kept.
func (s *Session) refreshFormat() bool {
	prev := s.format
	format, ok := DeriveFormat(paramsOf(s.stream), s.cfg)

	if prev.Channels != 0 && format == prev && (format.DSD != DSDKindDirect || s.cfg.DSDEndian == s.endian) {
		s.deferred = false
		return false
	}
	if prev.Channels != 0 && s.inFlight() {
		s.deferred = true
		return false
	}

	if !ok {
		logf(s.logger, "session: unknown DSD sample rate %d, using %d Hz", s.stream.SampleRate*8, format.SampleRate)
	}
	s.format = format
	s.endian = s.cfg.DSDEndian
	s.deferred = false

	if prev.Channels == 0 {
		return true
	}

	s.window.rescale(prev.FrameRate, format.FrameRate)
	s.updatePosition()

	if prev.DSD != format.DSD {
		s.codec.Reset()
		s.state = stateSubmit
		s.pending.resubmit = false
	}
	// Empty by now, the stale tag must not leak into the new layout.
	s.buf.Reset()

	return true
}

// inFlight reports whether output of the current shape is still buffered
// or being decoded.
func (s *Session) inFlight() bool {
	return s.buf.Len() > 0 || (s.pending.active() && s.state != stateSubmit)
}

// ConfigChanged delivers a new configuration snapshot. It takes effect on
// the first Read that starts with nothing left from the previous output
// shape. The window is then rescaled to the new frame rate.
func (s *Session) ConfigChanged(cfg Config) {
	s.cfg = cfg
}

// Format returns the current output format.
func (s *Session) Format() OutputFormat { return s.format }

// Stream returns the selected stream.
func (s *Session) Stream() audio.Stream { return s.stream }

// Window returns the playback window.
func (s *Session) Window() Window { return s.window }

// Position is the read position in seconds from the window start.
func (s *Session) Position() float64 { return s.position }

// Read fills p with whole output frames and returns the number of bytes
// written. It returns 0 once the window or the stream is exhausted.
func (s *Session) Read(p []byte) int {
	if s.closed {
		return 0
	}

	s.refreshFormat()
	n := s.fill(p)
	if n == 0 && s.deferred && s.refreshFormat() {
		n = s.fill(p)
	}
	return n
}

// fill copies whole frames of the current shape into p.
func (s *Session) fill(p []byte) int {
	frameSize := s.format.FrameSize()
	if frameSize <= 0 {
		return 0
	}

	size := len(p) / frameSize * frameSize
	if s.window.End >= 0 {
		left := s.window.End - s.window.Current + 1
		if left <= 0 {
			return 0
		}
		if int64(size/frameSize) > left {
			size = int(left) * frameSize
		}
	}

	written := 0
	for written < size {
		written += s.buf.Drain(p[written:size], frameSize)
		if written == size {
			break
		}

		if s.pending.active() {
			s.decodeUnit()
			continue
		}
		if s.deferred {
			break
		}

		pkt, ok := s.source.Next()
		if !ok {
			break
		}
		s.pending = pendingPacket{pkt: pkt, remaining: len(pkt.Data)}
		s.state = stateSubmit
	}

	s.window.Current += int64(written / frameSize)
	s.updatePosition()

	return written
}

func (s *Session) updatePosition() {
	if s.format.FrameRate > 0 {
		s.position = float64(s.window.Current-s.window.Start) / float64(s.format.FrameRate)
	}
}

// decodeUnit advances the pending packet by one step.
func (s *Session) decodeUnit() {
	if s.format.DSD != DSDKindNone {
		s.transcodePending()
		return
	}

	switch s.state {
	case stateSubmit:
		err := s.codec.SendPacket(s.pending.pkt)
		switch {
		case err == nil:
			s.state = stateAwaitingFrame
		case errors.Is(err, audio.ErrAgain):
			s.pending.resubmit = true
			s.state = stateAwaitingFrame
		default:
			logf(s.logger, "session: dropping packet of %d bytes: %v", len(s.pending.pkt.Data), err)
			s.consumePending()
		}

	case stateAwaitingFrame:
		err := s.codec.ReceiveFrame(&s.frame)
		switch {
		case err == nil:
			s.state = stateFrameReady
		case errors.Is(err, audio.ErrAgain) && s.pending.resubmit:
			s.pending.resubmit = false
			s.state = stateSubmit
		case errors.Is(err, audio.ErrAgain):
			s.consumePending()
		default:
			logf(s.logger, "session: decode failed: %v", err)
			s.consumePending()
		}

	case stateFrameReady:
		region := s.buf.Reserve(UnitPCM, frameBytes(&s.frame))
		s.buf.Commit(interleaveFrame(region, &s.frame))
		s.state = stateAwaitingFrame
	}
}

// transcodePending reshapes the whole pending DSD payload into the buffer.
func (s *Session) transcodePending() {
	data := s.pending.pkt.Data
	channels := s.stream.Channels
	order := s.stream.Codec.DSD()
	planar := s.stream.Codec == audio.CodecDSDLSBFPlanar || s.stream.Codec == audio.CodecDSDMSBFPlanar

	switch s.format.DSD {
	case DSDKindDirect:
		region := s.buf.Reserve(UnitDirectDSD, len(data))
		unit := dsd.UnitSize(s.format.BitsPerSample)
		if planar {
			if !dsd.Interleave(region, data, channels, unit) {
				logf(s.logger, "session: DSD packet size should be %d, got %d; not reordered",
					dsd.BlockSize*channels, len(data))
			}
		} else {
			dsd.Regroup(region, data, channels, unit)
		}

		if (order == audio.DSDLSBFirst && s.endian == BigEndian) ||
			(order == audio.DSDMSBFirst && s.endian == LittleEndian) {
			dsd.Reverse(region)
		}

		frameSize := s.format.FrameSize()
		s.buf.Commit(len(data) - len(data)%frameSize)

	case DSDKindDoP:
		region := s.buf.Reserve(UnitDoP, dsd.DoPSize(len(data), channels))
		s.buf.Commit(dsd.DoP(region, data, channels, planar, order == audio.DSDLSBFirst))
	}

	s.consumePending()
}

func (s *Session) consumePending() {
	s.pending.release()
	s.state = stateSubmit
}

// SeekSample positions the session at sample, relative to the window
// start. Buffered data is discarded before seeking. The demuxer may land
// at the nearest packet boundary before the target.
func (s *Session) SeekSample(sample int64) error {
	if s.closed {
		return &SeekError{Sample: sample, Err: ErrClosed}
	}

	s.pending.release()
	s.state = stateSubmit
	s.codec.Reset()
	s.buf.Reset()

	abs := sample + s.window.Start
	ts := s.sampleToTimestamp(abs)

	if err := s.demux.Seek(s.stream.Index, ts); err != nil {
		return &SeekError{Sample: sample, Err: err}
	}

	s.source.Rewind()
	s.window.Current = abs
	s.updatePosition()
	return nil
}

// SeekTime seeks to seconds from the window start.
func (s *Session) SeekTime(seconds float64) error {
	return s.SeekSample(int64(seconds * float64(s.format.FrameRate)))
}

// sampleToTimestamp converts an absolute output sample to the stream time
// base, rounding towards the earlier timestamp.
func (s *Session) sampleToTimestamp(sample int64) int64 {
	tb := s.stream.TimeBase
	rate := int64(s.format.FrameRate)
	if tb.Num <= 0 || tb.Den <= 0 || rate <= 0 {
		return 0
	}
	return sample * tb.Den / (rate * tb.Num)
}

// Close releases the demuxer, the codec and all buffers. It is safe to
// call more than once.
func (s *Session) Close() error {
	return s.teardown()
}

func (s *Session) teardown() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.pending.release()
	s.buf.release()
	s.frame = audio.Frame{}

	var errs []error
	if s.codec != nil {
		if err := s.codec.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing codec: %w", err))
		}
		s.codec = nil
	}
	if s.demux != nil {
		if err := s.demux.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing demuxer: %w", err))
		}
		s.demux = nil
	}

	return errors.Join(errs...)
}
