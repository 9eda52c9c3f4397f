// SPDX-License-Identifier: EPL-2.0

// Package wav provides a WAV demuxer and a WAV writer.
//
// It uses the github.com/go-audio/wav library for chunk parsing and
// encoding. The demuxer exposes a single PCM stream whose packets carry
// interleaved little endian samples, so the generic audio.RawCodec
// decodes them.
//
// # Supported Formats
//
//   - PCM 8-bit unsigned, 16, 24 and 32-bit signed
//   - Any channel count and sample rate
//   - WAVE_FORMAT_EXTENSIBLE headers carrying PCM
//
// # Demuxing
//
//	reg := audio.NewRegistry()
//	wav.Register(reg)
//
// or directly:
//
//	d, err := wav.Decoder{}.Open("audio.wav")
//	pkt, err := d.ReadPacket() // FramesPerPacket frames, PTS in frames
//
// Seek restarts the decoder and skips to the requested frame, so it is
// sample exact.
//
// # Writing WAV Files
//
// WritePCM writes whole buffers, Writer streams them:
//
//	f, _ := os.Create("output.wav")
//	w, err := wav.NewWriter(f, 44100, 2, 16)
//	w.Write(pcm)
//	w.Close()
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrUnsupportedWavLayout: not PCM, or no channels
//   - ErrUnsupportedBitDepth: bit depth other than 8, 16, 24 or 32
//   - ErrNoPCMData: the data chunk could not be located
package wav
