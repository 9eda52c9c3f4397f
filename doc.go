// SPDX-License-Identifier: EPL-2.0

// Package audpull decodes local audio files into a pull stream of raw
// samples for a player's output stage.
//
// A player asks for up to N bytes at a time and gets back whole frames of
// either PCM or DSD (raw, or wrapped as DSD over PCM), together with the
// format those bytes are in. Playback can be limited to a time window, and
// the stream can be repositioned by sample or by time.
//
// # Supported Formats
//
//   - WAV and AIFF via formats/wav and formats/aiff (go-audio)
//   - MP3 via formats/mp3 (go-mp3)
//   - Ogg Vorbis via formats/vorbis (oggvorbis)
//   - FLAC via formats/flac (mewkiz/flac)
//   - DSF via formats/dsf
//
// # Quick Start
//
//	p := audpull.NewPlugin(session.MapSettings{}, nil)
//
//	s, err := p.Open("/music/track.flac", nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	f := s.Format()
//	buf := make([]byte, 64*1024)
//	for {
//	    n := s.Read(buf)
//	    if n == 0 {
//	        break // end of stream or window
//	    }
//	    write(buf[:n], f)
//	}
//
// # DSD Output
//
// DSD files are decoded to float PCM by default. The host setting
// "ffmpeg.enable_dsd" selects Direct (1) or DoP (2) output, and
// "alsa.dsdformat" picks the Direct sample width and bit order. After a
// settings change call Plugin.ConfigChanged and hand Plugin.Config to open
// sessions through Session.ConfigChanged. The session switches modes once
// the audio already decoded in the old mode has been read.
//
// # Lower Level Use
//
// The session package works on any audio.Registry, so custom backends can
// be registered next to, or instead of, the bundled ones:
//
//	reg := audio.NewRegistry()
//	wav.Register(reg)
//	s, err := session.Open(reg, "file:///tmp/a.wav", &session.Range{Start: 44100, End: 88199})
package audpull
