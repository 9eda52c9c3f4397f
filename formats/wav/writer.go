// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audpull/internal/pcmpack"
)

// Writer encodes interleaved little endian PCM bytes as a WAV file.
// Bytes that do not complete a sample are kept for the next Write.
type Writer struct {
	enc *wav.Encoder
	bps int
	buf *goaudio.IntBuffer

	partial []byte
}

// NewWriter starts a PCM WAV file on w. bitDepth is 8, 16, 24 or 32.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	if _, _, ok := sampleFormat(bitDepth); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels < 1 || sampleRate < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	return &Writer{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		bps: bitDepth / 8,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	data := p
	if len(w.partial) > 0 {
		data = append(w.partial, p...)
		w.partial = nil
	}

	n := len(data) / w.bps
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:pcmpack.Unpack(w.buf.Data[:n], data, w.bps)]

	if rest := data[n*w.bps:]; len(rest) > 0 {
		w.partial = append([]byte(nil), rest...)
	}

	if len(w.buf.Data) == 0 {
		return len(p), nil
	}
	if err := w.enc.Write(w.buf); err != nil {
		return 0, fmt.Errorf("writing wav: %w", err)
	}

	return len(p), nil
}

// Close finalizes the headers. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("closing wav: %w", err)
	}
	return nil
}

// WritePCM writes a complete WAV file holding pcm.
func WritePCM(w io.WriteSeeker, sampleRate, channels, bitDepth int, pcm []byte) error {
	ww, err := NewWriter(w, sampleRate, channels, bitDepth)
	if err != nil {
		return err
	}
	if _, err := ww.Write(pcm); err != nil {
		return err
	}
	return ww.Close()
}
