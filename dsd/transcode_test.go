// SPDX-License-Identifier: EPL-2.0

package dsd

import (
	"bytes"
	"testing"
)

// planarPacket builds a packet whose byte at (channel c, offset k) encodes
// both, so every output byte can be traced back to its source.
func planarPacket(channels int) []byte {
	buf := make([]byte, BlockSize*channels)
	for c := range channels {
		for k := range BlockSize {
			buf[c*BlockSize+k] = byte(c*97 + k)
		}
	}
	return buf
}

func TestInterleave_Layout(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 6} {
		for _, unit := range []int{1, 2, 4} {
			src := planarPacket(channels)
			dst := make([]byte, len(src))

			if !Interleave(dst, src, channels, unit) {
				t.Fatalf("Interleave(ch=%d, unit=%d) = false, want true", channels, unit)
			}

			for k := 0; k < BlockSize/unit; k++ {
				for c := range channels {
					out := dst[k*unit*channels+c*unit : k*unit*channels+c*unit+unit]
					in := src[c*BlockSize+k*unit : c*BlockSize+k*unit+unit]
					if !bytes.Equal(out, in) {
						t.Fatalf("ch=%d unit=%d: unit %d of channel %d = %v, want %v", channels, unit, k, c, out, in)
					}
				}
			}
		}
	}
}

func TestInterleave_Bijection(t *testing.T) {
	t.Parallel()

	const channels = 2
	// Use distinct 16-bit tokens so every input position is unique.
	src := make([]byte, BlockSize*channels)
	for i := 0; i < len(src); i += 2 {
		src[i] = byte(i >> 9)
		src[i+1] = byte(i >> 1)
	}

	for _, unit := range []int{2, 4} {
		dst := make([]byte, len(src))
		Interleave(dst, src, channels, unit)

		if len(dst) != len(src) {
			t.Fatalf("len(dst) = %d, want %d", len(dst), len(src))
		}

		seen := make(map[[2]byte]int)
		for i := 0; i < len(dst); i += 2 {
			seen[[2]byte{dst[i], dst[i+1]}]++
		}
		for tok, n := range seen {
			if n != 1 {
				t.Errorf("unit=%d: token %v appears %d times", unit, tok, n)
			}
		}
		if len(seen) != len(src)/2 {
			t.Errorf("unit=%d: %d distinct tokens, want %d", unit, len(seen), len(src)/2)
		}
	}
}

func TestInterleave_MismatchedLengthPassesThrough(t *testing.T) {
	t.Parallel()

	src := planarPacket(2)[:BlockSize*2-16]
	dst := make([]byte, len(src))

	if Interleave(dst, src, 2, 4) {
		t.Error("Interleave() = true for mismatched length, want false")
	}
	if !bytes.Equal(dst, src) {
		t.Error("Interleave() did not copy the payload unchanged")
	}
}

func TestRegroup_MatchesInterleave(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 6} {
		planar := planarPacket(channels)
		byteInterleaved := make([]byte, len(planar))
		for c := range channels {
			for k := range BlockSize {
				byteInterleaved[k*channels+c] = planar[c*BlockSize+k]
			}
		}

		for _, unit := range []int{1, 2, 4} {
			want := make([]byte, len(planar))
			Interleave(want, planar, channels, unit)

			got := make([]byte, len(planar))
			if n := Regroup(got, byteInterleaved, channels, unit); n != len(planar) {
				t.Errorf("ch=%d unit=%d: Regroup() = %d, want %d", channels, unit, n, len(planar))
			}
			if !bytes.Equal(got, want) {
				t.Errorf("ch=%d unit=%d: Regroup() layout differs from Interleave()", channels, unit)
			}
		}
	}
}

func TestRegroup_PartialGroupCopied(t *testing.T) {
	t.Parallel()

	src := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	dst := make([]byte, len(src))

	// Two channels of 4-byte units: one whole group of 8 bytes.
	if n := Regroup(dst, src, 2, 4); n != 8 {
		t.Fatalf("Regroup() = %d, want 8", n)
	}
	want := []byte{0, 2, 4, 6, 1, 3, 5, 7, 8, 9}
	if !bytes.Equal(dst, want) {
		t.Errorf("Regroup() = %v, want %v", dst, want)
	}
}

func TestDoP_Framing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		size     int
	}{
		{"stereo block", 2, BlockSize * 2},
		{"mono short", 1, 10},
		{"six channels", 6, BlockSize * 6},
		{"odd remainder", 2, 2*7 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := make([]byte, tt.size)
			for i := range src {
				src[i] = byte(i*31 + 1)
			}

			frames := tt.size / tt.channels / 2
			dst := make([]byte, DoPSize(tt.size, tt.channels))
			n := DoP(dst, src, tt.channels, true, false)

			if want := frames * tt.channels * 4; n != want {
				t.Fatalf("DoP() = %d bytes, want %d", n, want)
			}

			for f := range frames {
				want := DoPMarkerA
				if f%2 == 1 {
					want = DoPMarkerB
				}
				for c := range tt.channels {
					group := dst[(f*tt.channels+c)*4:]
					if group[3] != want {
						t.Fatalf("frame %d channel %d marker = %#02x, want %#02x", f, c, group[3], want)
					}
					if group[0] != 0x00 {
						t.Fatalf("frame %d channel %d low byte = %#02x, want 0", f, c, group[0])
					}
				}
			}
		})
	}
}

func TestDoP_PayloadPlacement(t *testing.T) {
	t.Parallel()

	// Two channels, planar, four bytes per channel: 2 DoP frames.
	src := []byte{
		0x10, 0x11, 0x12, 0x13, // channel 0
		0x20, 0x21, 0x22, 0x23, // channel 1
	}

	dst := make([]byte, DoPSize(len(src), 2))
	DoP(dst, src, 2, true, false)

	want := []byte{
		0x00, 0x11, 0x10, 0x05,
		0x00, 0x21, 0x20, 0x05,
		0x00, 0x13, 0x12, 0xFA,
		0x00, 0x23, 0x22, 0xFA,
	}
	if !bytes.Equal(dst, want) {
		t.Errorf("DoP() = % x, want % x", dst, want)
	}
}

func TestDoP_InterleavedSourceAndBitReversal(t *testing.T) {
	t.Parallel()

	// Byte-interleaved stereo: L0 R0 L1 R1.
	src := []byte{0x01, 0x02, 0x80, 0x40}

	dst := make([]byte, DoPSize(len(src), 2))
	DoP(dst, src, 2, false, true)

	want := []byte{
		0x00, BitOrderTable[0x80], BitOrderTable[0x01], 0x05,
		0x00, BitOrderTable[0x40], BitOrderTable[0x02], 0x05,
	}
	if !bytes.Equal(dst, want) {
		t.Errorf("DoP() = % x, want % x", dst, want)
	}
}

func TestUnitSize(t *testing.T) {
	t.Parallel()

	tests := map[int]int{32: 4, 16: 2, 8: 1, 0: 1}
	for bits, want := range tests {
		if got := UnitSize(bits); got != want {
			t.Errorf("UnitSize(%d) = %d, want %d", bits, got, want)
		}
	}
}
