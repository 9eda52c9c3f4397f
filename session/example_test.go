// SPDX-License-Identifier: EPL-2.0

package session_test

import (
	"fmt"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/audiotest"
	"github.com/ik5/audpull/session"
)

func Example() {
	d := audiotest.NewPCM16Demuxer(44100, 2, 44100, 1024, audiotest.Sine(44100, 440))

	reg := audio.NewRegistry()
	reg.RegisterFormat("pcm", audiotest.Opener(d))
	reg.RegisterDecoder(audio.CodecPCM, audio.NewRawCodec)

	// Play samples 1000..1999 only.
	s, err := session.Open(reg, "file:///music/tone.pcm", &session.Range{Start: 1000, End: 1999})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer s.Close()

	f := s.Format()
	fmt.Printf("%d Hz, %d channels, %d bits\n", f.SampleRate, f.Channels, f.BitsPerSample)

	total := 0
	buf := make([]byte, 4096)
	for {
		n := s.Read(buf)
		if n == 0 {
			break
		}
		total += n
	}
	fmt.Println("bytes:", total)

	// Output:
	// 44100 Hz, 2 channels, 16 bits
	// bytes: 4000
}

func ExampleConfigFromSettings() {
	cfg := session.ConfigFromSettings(session.MapSettings{
		session.KeyEnableDSD: "2",
		session.KeyDSDFormat: "1",
	}, nil)

	fmt.Println(cfg.DSDMode, cfg.DSDBits)
	// Output: DoP 32
}
