// SPDX-License-Identifier: EPL-2.0

// Command audpull decodes an audio file, or a window of it, into a WAV file
// (PCM output) or a raw file (DSD output).
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/ik5/audpull"
	"github.com/ik5/audpull/formats/wav"
	"github.com/ik5/audpull/session"
	"github.com/ik5/audpull/utils"
)

func main() {
	start := flag.Float64("start", 0, "window start in seconds")
	end := flag.Float64("end", 0, "window end in seconds, 0 for the whole track")
	dsdMode := flag.Int("dsd", 0, "DSD output: 0 PCM, 1 direct, 2 DoP")
	dsdFormat := flag.Int("dsdformat", 0, "direct DSD format: 0 32/big, 1 32/little, 2 16/big, 3 16/little")
	probe := flag.Bool("probe", false, "print track info and exit")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: audpull [flags] <input> [output]")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("audpull: ")

	if flag.NArg() < 1 || (!*probe && flag.NArg() < 2) {
		flag.Usage()
		os.Exit(2)
	}
	inPath := flag.Arg(0)

	p := audpull.NewPlugin(session.MapSettings{
		session.KeyEnableDSD: strconv.Itoa(*dsdMode),
		session.KeyDSDFormat: strconv.Itoa(*dsdFormat),
	}, nil)

	if *probe {
		info, err := p.Probe(inPath)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("codec:       %s\n", info.Codec)
		fmt.Printf("duration:    %s\n", info.Duration)
		fmt.Printf("bits:        %d\n", info.BitsPerSample)
		fmt.Printf("channels:    %d\n", info.Channels)
		fmt.Printf("sample rate: %s\n", info.SampleRate)
		fmt.Printf("bitrate:     %d kbps\n", info.Bitrate)
		return
	}

	s, err := openWindow(p, inPath, *start, *end)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	if err := decode(s, flag.Arg(1)); err != nil {
		log.Fatal(err)
	}
}

// openWindow opens inPath restricted to [start, end] seconds. The window is
// expressed in output frames, so the output frame rate is learned first.
func openWindow(p *audpull.Plugin, inPath string, start, end float64) (*session.Session, error) {
	if end <= 0 {
		return p.Open(inPath, nil, nil)
	}

	s, err := p.Open(inPath, nil, nil)
	if err != nil {
		return nil, err
	}
	rate := float64(s.Format().FrameRate)
	if err := s.Close(); err != nil {
		return nil, err
	}

	return p.Open(inPath, &session.Range{
		Start: int64(math.Round(start * rate)),
		End:   int64(math.Round(end*rate)) - 1,
	}, nil)
}

func decode(s *session.Session, outPath string) error {
	f := s.Format()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var w io.Writer = out
	var closer io.Closer

	switch {
	case f.DSD == session.DSDKindDirect:
		// raw interleaved DSD, nothing to wrap it in
	case f.IsFloat:
		ww, err := wav.NewWriter(out, f.SampleRate, f.Channels, 16)
		if err != nil {
			return err
		}
		w, closer = &floatTo16{w: ww}, ww
	default:
		ww, err := wav.NewWriter(out, f.SampleRate, f.Channels, f.BitsPerSample)
		if err != nil {
			return err
		}
		w, closer = ww, ww
	}

	buf := make([]byte, 64*1024)
	total := 0
	for {
		n := s.Read(buf)
		if n == 0 {
			break
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
		total += n
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			return err
		}
	}

	log.Printf("wrote %s: %d bytes of %s output, %d Hz, %d channels",
		outPath, total, f.DSD, f.SampleRate, f.Channels)
	return nil
}

// floatTo16 converts little endian float32 samples to 16-bit PCM.
type floatTo16 struct {
	w   io.Writer
	buf []byte
}

func (c *floatTo16) Write(p []byte) (int, error) {
	n := len(p) / 4
	if cap(c.buf) < n*2 {
		c.buf = make([]byte, n*2)
	}
	c.buf = c.buf[:n*2]

	for i := range n {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		binary.LittleEndian.PutUint16(c.buf[i*2:], uint16(utils.Float32ToInt16(v)))
	}

	if _, err := c.w.Write(c.buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
