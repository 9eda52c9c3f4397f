// SPDX-License-Identifier: EPL-2.0

package dsd

// BlockSize is the per-channel block length of planar DSD packets.
const BlockSize = 4096

// DoPBytesPerFrame is the size of one DoP sample of one channel.
const DoPBytesPerFrame = 4

// DoP markers, alternating frame to frame.
const (
	DoPMarkerA byte = 0x05
	DoPMarkerB byte = 0xFA
)

// UnitSize returns the Direct interleave unit in bytes for an output bit depth.
func UnitSize(bitsPerSample int) int {
	switch bitsPerSample {
	case 32:
		return 4
	case 16:
		return 2
	default:
		return 1
	}
}

// Interleave reorders a planar payload (one BlockSize block per channel)
// into sample-interleaved units of unit bytes: output bytes
// k*unit*channels + c*unit .. +unit hold channel c's k-th unit.
//
// When len(src) is not BlockSize*channels the payload is copied to dst
// unchanged and Interleave returns false. dst must be at least len(src).
func Interleave(dst, src []byte, channels, unit int) bool {
	if channels <= 0 || len(src) != BlockSize*channels || unit <= 0 || BlockSize%unit != 0 {
		copy(dst, src)
		return false
	}

	out := 0
	for k := 0; k < BlockSize; k += unit {
		for c := range channels {
			in := c*BlockSize + k
			copy(dst[out:out+unit], src[in:in+unit])
			out += unit
		}
	}

	return true
}

// Regroup reorders a byte-interleaved payload (one byte per channel in
// turn) into units of unit bytes per channel, the layout Interleave
// produces. Bytes past the last whole group of channels*unit bytes are
// copied unchanged. It returns the number of bytes regrouped.
func Regroup(dst, src []byte, channels, unit int) int {
	if channels <= 0 || unit <= 0 {
		copy(dst, src)
		return 0
	}

	group := channels * unit
	whole := len(src) / group * group
	for g := 0; g < whole; g += group {
		for j := range unit {
			for c := range channels {
				dst[g+c*unit+j] = src[g+j*channels+c]
			}
		}
	}
	copy(dst[whole:], src[whole:])

	return whole
}

// DoPFrames returns the number of DoP frames a payload of n bytes produces.
func DoPFrames(n, channels int) int {
	if channels <= 0 {
		return 0
	}
	return n / channels / 2
}

// DoPSize returns the output size in bytes of DoP for a payload of n bytes.
func DoPSize(n, channels int) int {
	return DoPFrames(n, channels) * channels * DoPBytesPerFrame
}

// DoP packs src into DSD-over-PCM frames in dst and returns the number of
// bytes written, DoPSize(len(src), channels).
//
// Every 4-byte group is a little-endian 32-bit sample: byte 0 is zero,
// bytes 2 and 1 hold two consecutive DSD bytes of the channel and byte 3 the
// marker. planar selects the source layout (one block per channel versus
// byte-interleaved); lsbFirst sources are bit-reversed on the way.
func DoP(dst, src []byte, channels int, planar, lsbFirst bool) int {
	frames := DoPFrames(len(src), channels)
	if frames == 0 {
		return 0
	}

	chLen := len(src) / channels
	marker := DoPMarkerA
	out := dst[:frames*channels*DoPBytesPerFrame]
	o := 0

	for f := range frames {
		for c := range channels {
			var b0, b1 byte
			if planar {
				p := chLen*c + f*2
				b0, b1 = src[p], src[p+1]
			} else {
				b0 = src[(f*2)*channels+c]
				b1 = src[(f*2+1)*channels+c]
			}
			if lsbFirst {
				b0, b1 = BitOrderTable[b0], BitOrderTable[b1]
			}

			out[o] = 0
			out[o+1] = b1
			out[o+2] = b0
			out[o+3] = marker
			o += DoPBytesPerFrame
		}
		marker = ^marker
	}

	return o
}
