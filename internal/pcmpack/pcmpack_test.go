// SPDX-License-Identifier: EPL-2.0

package pcmpack

import (
	"bytes"
	"slices"
	"testing"
)

func TestPack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  []int
		bps  int
		want []byte
	}{
		{"u8", []int{0, 128, 255}, 1, []byte{0x00, 0x80, 0xFF}},
		{"s16", []int{1, -1, 32767, -32768}, 2, []byte{0x01, 0x00, 0xFF, 0xFF, 0xFF, 0x7F, 0x00, 0x80}},
		{"s24", []int{-2, 8388607}, 3, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}},
		{"s32", []int{-2147483648}, 4, []byte{0x00, 0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]byte, len(tt.src)*tt.bps)
			if n := Pack(dst, tt.src, tt.bps); n != len(tt.want) {
				t.Fatalf("Pack() = %d, want %d", n, len(tt.want))
			}
			if !bytes.Equal(dst, tt.want) {
				t.Errorf("Pack() = % x, want % x", dst, tt.want)
			}

			back := make([]int, len(tt.src))
			if n := Unpack(back, dst, tt.bps); n != len(tt.src) || !slices.Equal(back, tt.src) {
				t.Errorf("Unpack() = %d %v, want %v", n, back, tt.src)
			}
		})
	}
}

func TestPack_UnsupportedWidth(t *testing.T) {
	t.Parallel()

	if n := Pack(make([]byte, 8), []int{1}, 5); n != 0 {
		t.Errorf("Pack() = %d, want 0", n)
	}
	if n := Unpack(make([]int, 1), make([]byte, 8), 0); n != 0 {
		t.Errorf("Unpack() = %d, want 0", n)
	}
}
