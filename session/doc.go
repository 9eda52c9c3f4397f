// SPDX-License-Identifier: EPL-2.0

// Package session turns one audio stream of a local file into a pull
// stream of raw bytes in a single advertised output format.
//
// # Opening
//
//	reg := audio.NewRegistry()
//	wav.Register(reg)
//	s, err := session.Open(reg, "/music/track.wav", nil,
//	    session.WithConfig(cfg),
//	    session.WithMetadataSink(sink),
//	)
//
// Only local paths and file:// URIs are accepted. Open fails with an
// *OpenError whose Kind tells why; the error wraps the underlying cause.
//
// # Reading
//
// Read fills the given buffer with whole frames of the format reported by
// Format. It never writes more than asked and returns 0 once the playback
// window or the stream is exhausted:
//
//	buf := make([]byte, 8192)
//	for {
//	    n := s.Read(buf)
//	    if n == 0 {
//	        break
//	    }
//	    out.Write(buf[:n])
//	}
//
// # Playback window
//
// A Range restricts playback to [Start, End] in output frames, End
// inclusive. Frames are counted at OutputFormat.FrameRate, which for DSD
// output can differ from the advertised SampleRate. Position and SeekSample
// are relative to the window start.
//
// # DSD
//
// DSD streams are delivered depending on Config.DSDMode:
//   - DSDModePCM: decoded to float PCM by the stream's codec
//   - DSDModeDirect: raw DSD bytes, sample-interleaved in units of
//     Config.DSDBits, bit order following Config.DSDEndian
//   - DSDModeDoP: DSD-over-PCM frames in 32-bit containers
//
// The mode can change between reads through ConfigChanged. The output
// format is re-derived before every Read; a new format starts once the
// bytes of the old one are handed out, and the window is rescaled to the
// new frame rate.
package session
