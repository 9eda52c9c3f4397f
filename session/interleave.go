// SPDX-License-Identifier: EPL-2.0

package session

import (
	"encoding/binary"

	"github.com/ik5/audpull/audio"
)

// frameBytes returns the interleaved size of f.
func frameBytes(f *audio.Frame) int {
	return f.NbSamples * f.Channels * f.Format.BytesPerSample()
}

// interleaveFrame writes f into dst as channel-interleaved samples and
// returns the number of bytes written. Packed frames are copied verbatim.
func interleaveFrame(dst []byte, f *audio.Frame) int {
	if len(f.Planes) == 0 || f.NbSamples <= 0 {
		return 0
	}

	if !f.Format.IsPlanar() {
		return copy(dst, f.Planes[0][:frameBytes(f)])
	}

	channels := f.Channels
	if len(f.Planes) < channels {
		return 0
	}
	nb := f.NbSamples
	out := 0

	switch f.Format.BytesPerSample() {
	case 1:
		for c := range channels {
			plane := f.Planes[c][:nb]
			for i, s := range plane {
				dst[i*channels+c] = s
			}
		}
		out = nb * channels
	case 2:
		for c := range channels {
			plane := f.Planes[c][:nb*2]
			for i := range nb {
				binary.LittleEndian.PutUint16(dst[(i*channels+c)*2:], binary.LittleEndian.Uint16(plane[i*2:]))
			}
		}
		out = nb * channels * 2
	case 3:
		for c := range channels {
			plane := f.Planes[c][:nb*3]
			for i := range nb {
				o := (i*channels + c) * 3
				copy(dst[o:o+3], plane[i*3:i*3+3])
			}
		}
		out = nb * channels * 3
	case 4:
		if channels == 2 {
			left := f.Planes[0][:nb*4]
			right := f.Planes[1][:nb*4]
			_ = dst[nb*8-1] // BCE

			for i := range nb {
				binary.LittleEndian.PutUint64(dst[i*8:],
					uint64(binary.LittleEndian.Uint32(left[i*4:]))|
						uint64(binary.LittleEndian.Uint32(right[i*4:]))<<32)
			}
		} else {
			for c := range channels {
				plane := f.Planes[c][:nb*4]
				for i := range nb {
					binary.LittleEndian.PutUint32(dst[(i*channels+c)*4:], binary.LittleEndian.Uint32(plane[i*4:]))
				}
			}
		}
		out = nb * channels * 4
	}

	return out
}
