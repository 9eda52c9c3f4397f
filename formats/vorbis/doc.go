// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides an Ogg Vorbis demuxer.
//
// It uses github.com/jfreymuth/oggvorbis, a pure Go decoder. As with the mp3
// backend, decoding happens while demuxing: packets carry interleaved
// float32 samples and Register binds audio.RawCodec to audio.CodecVorbis.
//
//	reg := audio.NewRegistry()
//	vorbis.Register(reg)
//
// Supported extensions are .ogg and .oga. Seeking is sample exact.
package vorbis
