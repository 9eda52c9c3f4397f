// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides an MP3 demuxer.
//
// This package uses github.com/hajimehoshi/go-mp3, which decodes while it
// reads. The demuxer therefore hands out packets that already hold
// interleaved 16-bit stereo samples; Register binds audio.RawCodec to
// audio.CodecMP3 so the decode session treats them like any other codec.
//
// # Demuxing MP3 Files
//
//	reg := audio.NewRegistry()
//	mp3.Register(reg)
//
//	d, err := mp3.Decoder{}.Open("audio.mp3")
//	pkt, err := d.ReadPacket()
//
// Packet.Size reports the number of MP3 bytes consumed for the packet, so
// bitrate reporting reflects the compressed stream.
//
// # Output Format
//
//   - Sample format: s16, interleaved
//   - Channels: 2 (go-mp3 upmixes mono files)
//   - Sample rate: Depends on the MP3 file (typically 44.1kHz or 48kHz)
//
// Seeking is by decoded byte offset and requires a seekable input, which
// files always are.
package mp3
