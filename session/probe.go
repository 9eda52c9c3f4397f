// SPDX-License-Identifier: EPL-2.0

package session

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/ik5/audpull/audio"
)

// Info is what a library scanner records for a track.
type Info struct {
	Codec    string
	Duration time.Duration
	// BitsPerSample is 1 for DSD streams.
	BitsPerSample int
	Channels      int
	// SampleRate is in Hz, or "2.8224M" style for DSD bit rates.
	SampleRate string
	FileSize   int64
	// Bitrate is the average bitrate in kbit/s, 0 when the duration is unknown.
	Bitrate int
}

// Probe reads the stream properties of uri without decoding it.
func Probe(reg *audio.Registry, uri string) (Info, error) {
	path, err := LocalPath(uri)
	if err != nil {
		return Info{}, &OpenError{Kind: OpenNotLocal, Path: uri, Err: err}
	}
	if reg == nil {
		return Info{}, &OpenError{Kind: OpenUnreadable, Path: path, Err: ErrNoRegistry}
	}

	opener, ok := reg.FormatForPath(path)
	if !ok {
		return Info{}, &OpenError{Kind: OpenUnreadable, Path: path, Err: ErrUnknownFormat}
	}

	demux, err := opener.Open(path)
	if err != nil {
		return Info{}, &OpenError{Kind: OpenUnreadable, Path: path, Err: err}
	}
	defer demux.Close()

	stream, _, ok := selectStream(reg, demux.Streams())
	if !ok {
		return Info{}, &OpenError{Kind: OpenNoDecodableStream, Path: path, Err: ErrNoDecodableStream}
	}

	info := Info{
		Codec:         stream.Name(),
		Duration:      demux.Duration(),
		BitsPerSample: stream.SampleFormat.BytesPerSample() * 8,
		Channels:      stream.Channels,
		SampleRate:    strconv.Itoa(stream.SampleRate),
	}

	if stream.Codec.DSD() != audio.DSDNone {
		info.BitsPerSample = 1
		info.SampleRate = fmt.Sprintf("%.4fM", float64(stream.SampleRate*8)/1e6)
	}

	if fi, err := os.Stat(path); err == nil {
		info.FileSize = fi.Size()
	}
	if sec := info.Duration.Seconds(); sec > 0 {
		info.Bitrate = int(math.Round(float64(info.FileSize) * 8 / sec / 1000))
	}

	return info, nil
}
