// SPDX-License-Identifier: EPL-2.0

// Package flac provides a FLAC demuxer built on github.com/mewkiz/flac.
//
// Every packet is one decoded FLAC frame in planar layout. Streams of up to
// 16 bits come out as s16p, deeper streams as s32p. Either way samples are
// left justified, so a 12-bit stream plays at full scale.
//
//	reg := audio.NewRegistry()
//	flac.Register(reg)
//
// Seeking is sample exact: the library positions on the frame holding the
// target sample and the demuxer trims the head of the next packet.
package flac
