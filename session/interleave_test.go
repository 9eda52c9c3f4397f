// SPDX-License-Identifier: EPL-2.0

package session

import (
	"bytes"
	"testing"

	"github.com/ik5/audpull/audio"
)

// planes builds per-channel planes whose bytes encode (channel, sample, byte).
// The encoding is unique for up to 8 channels, 8 samples and 4 byte wide
// samples.
func planes(channels, nb, bps int) [][]byte {
	p := make([][]byte, channels)
	for c := range channels {
		p[c] = make([]byte, nb*bps)
		for i := range nb {
			for k := range bps {
				p[c][i*bps+k] = byte(c<<5 | (i&7)<<2 | k)
			}
		}
	}
	return p
}

func TestPlanes_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[byte]bool)
	for _, plane := range planes(6, 5, 4) {
		for _, b := range plane {
			if seen[b] {
				t.Fatalf("byte %#x appears twice", b)
			}
			seen[b] = true
		}
	}
}

func TestInterleaveFrame_Planar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   audio.SampleFormat
		channels int
	}{
		{audio.SampleU8P, 2},
		{audio.SampleS16P, 1},
		{audio.SampleS16P, 2},
		{audio.SampleS24P, 2},
		{audio.SampleS32P, 2},
		{audio.SampleS32P, 3},
		{audio.SampleF32P, 6},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()

			const nb = 5
			bps := tt.format.BytesPerSample()
			f := audio.Frame{Format: tt.format, Channels: tt.channels, NbSamples: nb, Planes: planes(tt.channels, nb, bps)}

			want := make([]byte, 0, nb*tt.channels*bps)
			for i := range nb {
				for c := range tt.channels {
					want = append(want, f.Planes[c][i*bps:(i+1)*bps]...)
				}
			}

			dst := make([]byte, frameBytes(&f))
			if n := interleaveFrame(dst, &f); n != len(want) {
				t.Fatalf("interleaveFrame() = %d, want %d", n, len(want))
			}
			if !bytes.Equal(dst, want) {
				t.Errorf("interleaved = % x\nwant          % x", dst, want)
			}
		})
	}
}

func TestInterleaveFrame_Packed(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	f := audio.Frame{Format: audio.SampleS16, Channels: 2, NbSamples: 2, Planes: [][]byte{data}}

	dst := make([]byte, 16)
	if n := interleaveFrame(dst, &f); n != 8 || !bytes.Equal(dst[:8], data[:8]) {
		t.Errorf("interleaveFrame() = %d % x", n, dst[:n])
	}
}

func TestInterleaveFrame_Empty(t *testing.T) {
	t.Parallel()

	f := audio.Frame{Format: audio.SampleS16P, Channels: 2}
	if n := interleaveFrame(nil, &f); n != 0 {
		t.Errorf("interleaveFrame() = %d, want 0", n)
	}
}
