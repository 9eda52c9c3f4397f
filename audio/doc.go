// SPDX-License-Identifier: EPL-2.0

// Package audio defines the demultiplexing and decoding contract used by
// the decode session, together with a registry of backends.
//
// # Demuxer
//
// A Demuxer is an opened media handle bound to one local file:
//
//	type Demuxer interface {
//	    Streams() []Stream
//	    Duration() time.Duration
//	    ReadPacket() (Packet, error)
//	    Seek(stream int, ts int64) error
//	    Close() error
//	}
//
// ReadPacket returns packets of every stream in the container; consumers
// filter by Packet.StreamIndex. io.EOF ends the stream. Errors wrapping
// ErrFatal are terminal, anything else is expected to clear up on the
// next read.
//
// # Codec
//
// Codecs follow a two-phase submit/receive protocol:
//
//	err := codec.SendPacket(pkt)   // ErrAgain: receive pending frames first
//	err = codec.ReceiveFrame(&f)   // ErrAgain: submit more input
//
// RawCodec covers every backend whose packets already carry samples in the
// stream's SampleFormat.
//
// # Registry
//
// Backends register an Opener per file extension and a DecoderFactory per
// CodecID:
//
//	reg := audio.NewRegistry()
//	reg.RegisterFormat("wav", opener)
//	reg.RegisterDecoder(audio.CodecPCM, audio.NewRawCodec)
//
//	opener, ok := reg.FormatForPath("track.wav")
//	factory, ok := reg.FindDecoder(stream.Codec)
//
// The registry is safe for concurrent use.
//
// # Sample Formats
//
// SampleFormat mirrors the usual packed/planar split:
//   - packed (U8, S16, S24, S32, F32): one plane, channels interleaved
//   - planar (U8P ... F32P): one plane per channel
//
// Multi-byte integer samples are little-endian.
package audio
