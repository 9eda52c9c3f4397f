// SPDX-License-Identifier: EPL-2.0

// Package dsd reshapes raw Direct Stream Digital payloads into the byte
// layouts an output stage expects.
//
// Three shapes are supported:
//   - native DSD as delivered by the demuxer (one block per channel for
//     planar codecs, byte-interleaved otherwise)
//   - Direct: sample-interleaved DSD in 1, 2 or 4 byte units, with the bit
//     order flipped with Reverse when the requested endianness differs from
//     the source orientation
//   - DoP (DSD over PCM): 32-bit little-endian frames holding a marker byte
//     that alternates between 0x05 and 0xFA, two DSD bytes and a zero byte
//
// # Sample Rates
//
// Output rates are looked up from the DSD bit rate (the codec sample rate
// times eight):
//
//	rate, ok := dsd.DirectRate(2822400) // 88200
//	rate, ok = dsd.DoPRate(5644800)     // 352800
//
// Unknown bit rates fall back to the lowest rung and report ok == false.
//
// # PCM Output
//
// NewDecoder returns an audio.Codec that converts DSD to planar float PCM at
// one eighth of the bit rate, used when DSD passthrough is disabled.
//
// All tables are immutable after package initialization and safe for
// concurrent use.
package dsd
