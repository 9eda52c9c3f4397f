// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audpull/internal/audiotest"
)

func readBack(t *testing.T, path string) []byte {
	t.Helper()

	d, err := Decoder{}.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	var out []byte
	for {
		pkt, err := d.ReadPacket()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadPacket() error = %v", err)
		}
		out = append(out, pkt.Data...)
	}
}

func TestWritePCM_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		bits     int
		pcm      []byte
	}{
		{"stereo 16", 2, 16, audiotest.PCM16(2, 5000, audiotest.Sine(22050, 1000))},
		{"mono 16", 1, 16, audiotest.PCM16(1, 100, audiotest.Ramp)},
		{"stereo 24", 2, 24, []byte{1, 2, 3, 4, 5, 0x86, 0xFF, 0xFF, 0xFF, 0, 0, 0x80}},
		{"mono 8", 1, 8, []byte{0, 64, 128, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "out.wav")
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := WritePCM(f, 22050, tt.channels, tt.bits, tt.pcm); err != nil {
				t.Fatalf("WritePCM() error = %v", err)
			}
			f.Close()

			if got := readBack(t, path); !bytes.Equal(got, tt.pcm) {
				t.Errorf("read back % x\nwant         % x", got, tt.pcm)
			}
		})
	}
}

func TestWriter_SplitSamples(t *testing.T) {
	t.Parallel()

	pcm := audiotest.PCM16(2, 64, audiotest.Ramp)
	path := filepath.Join(t.TempDir(), "split.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	w, err := NewWriter(f, 8000, 2, 16)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	// Odd sized writes leave half samples behind.
	for off := 0; off < len(pcm); off += 7 {
		end := min(off+7, len(pcm))
		if n, err := w.Write(pcm[off:end]); err != nil || n != end-off {
			t.Fatalf("Write() = %d, %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.Close()

	if got := readBack(t, path); !bytes.Equal(got, pcm) {
		t.Error("split writes did not round trip")
	}
}

func TestNewWriter_Invalid(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := NewWriter(f, 8000, 2, 12); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("NewWriter(12 bit) error = %v, want ErrUnsupportedBitDepth", err)
	}
	if _, err := NewWriter(f, 8000, 0, 16); !errors.Is(err, ErrUnsupportedWavLayout) {
		t.Errorf("NewWriter(0 channels) error = %v, want ErrUnsupportedWavLayout", err)
	}
}
