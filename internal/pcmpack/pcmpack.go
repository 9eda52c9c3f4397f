// SPDX-License-Identifier: EPL-2.0

// Package pcmpack converts between go-audio integer buffers and packed
// little endian sample bytes.
package pcmpack

import "encoding/binary"

// Pack writes src as little endian samples of bps bytes into dst and
// returns the number of bytes written. 8-bit values are stored as their
// low byte. dst must hold len(src)*bps bytes.
func Pack(dst []byte, src []int, bps int) int {
	if len(src) == 0 {
		return 0
	}

	switch bps {
	case 1:
		for i, v := range src {
			dst[i] = byte(v)
		}
	case 2:
		_ = dst[len(src)*2-1] // BCE
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(v)))
		}
	case 3:
		for i, v := range src {
			o := i * 3
			dst[o] = byte(v)
			dst[o+1] = byte(v >> 8)
			dst[o+2] = byte(v >> 16)
		}
	case 4:
		_ = dst[len(src)*4-1] // BCE
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(int32(v)))
		}
	default:
		return 0
	}

	return len(src) * bps
}

// Unpack reads little endian samples of bps bytes from src into dst and
// returns the number of samples read. 8-bit samples are read unsigned,
// wider ones sign extended.
func Unpack(dst []int, src []byte, bps int) int {
	if bps <= 0 {
		return 0
	}

	n := min(len(dst), len(src)/bps)

	switch bps {
	case 1:
		for i := range n {
			dst[i] = int(src[i])
		}
	case 2:
		for i := range n {
			dst[i] = int(int16(binary.LittleEndian.Uint16(src[i*2:])))
		}
	case 3:
		for i := range n {
			o := i * 3
			v := int32(src[o]) | int32(src[o+1])<<8 | int32(src[o+2])<<16
			dst[i] = int(v<<8) >> 8
		}
	case 4:
		for i := range n {
			dst[i] = int(int32(binary.LittleEndian.Uint32(src[i*4:])))
		}
	default:
		return 0
	}

	return n
}
