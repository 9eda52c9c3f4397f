// SPDX-License-Identifier: EPL-2.0

// Package aiff provides an AIFF (Audio Interchange File Format) demuxer.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// # Supported Formats
//
//   - PCM 8, 16, 24 and 32-bit
//   - Mono and multi-channel
//   - Any sample rate
//
// # Demuxing AIFF Files
//
//	d, err := aiff.Decoder{}.Open("audio.aif")
//	if err != nil {
//	    // Handle error
//	}
//	pkt, err := d.ReadPacket()
//
// Packets hold up to FramesPerPacket frames of interleaved little endian
// samples, so audio.RawCodec decodes them. 8-bit AIFF samples are signed;
// they are delivered as unsigned bytes like 8-bit WAV.
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores sample rate as 80-bit float (WAV uses 32-bit int)
//
// The stream's codec name keeps the source byte order ("pcm_s16be"), while
// packet payloads are always converted.
//
// # Error Handling
//
//   - ErrNotAiffFile: The input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: sample size other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: no channels or sample rate
package aiff
