// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MediaKind classifies a stream.
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaAudio
	MediaVideo
	MediaData
)

func (k MediaKind) String() string {
	switch k {
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	case MediaData:
		return "data"
	default:
		return "unknown"
	}
}

// CodecID identifies the coded representation of a stream.
type CodecID int

const (
	CodecNone CodecID = iota
	// CodecPCM is raw PCM in the stream's SampleFormat.
	CodecPCM
	CodecMP3
	CodecVorbis
	CodecFLAC
	// DSD, least significant bit first, channel-interleaved bytes.
	CodecDSDLSBF
	// DSD, most significant bit first, channel-interleaved bytes.
	CodecDSDMSBF
	// DSD, least significant bit first, one block per channel.
	CodecDSDLSBFPlanar
	// DSD, most significant bit first, one block per channel.
	CodecDSDMSBFPlanar
)

var codecNames = map[CodecID]string{
	CodecNone:          "none",
	CodecPCM:           "pcm",
	CodecMP3:           "mp3",
	CodecVorbis:        "vorbis",
	CodecFLAC:          "flac",
	CodecDSDLSBF:       "dsd_lsbf",
	CodecDSDMSBF:       "dsd_msbf",
	CodecDSDLSBFPlanar: "dsd_lsbf_planar",
	CodecDSDMSBFPlanar: "dsd_msbf_planar",
}

func (c CodecID) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// DSDOrder describes the bit orientation of a DSD codec.
type DSDOrder int

const (
	DSDNone DSDOrder = iota
	DSDLSBFirst
	DSDMSBFirst
)

// DSD reports the bit orientation of the codec, DSDNone for non-DSD codecs.
func (c CodecID) DSD() DSDOrder {
	switch c {
	case CodecDSDLSBF, CodecDSDLSBFPlanar:
		return DSDLSBFirst
	case CodecDSDMSBF, CodecDSDMSBFPlanar:
		return DSDMSBFirst
	default:
		return DSDNone
	}
}

// SampleFormat is the layout of decoded samples. All multi-byte formats are
// little-endian signed integers, or IEEE float for F32/F32P.
type SampleFormat int

const (
	SampleNone SampleFormat = iota
	SampleU8
	SampleS16
	SampleS24
	SampleS32
	SampleF32
	SampleU8P
	SampleS16P
	SampleS24P
	SampleS32P
	SampleF32P
)

var sampleFormatNames = [...]string{
	SampleNone: "none",
	SampleU8:   "u8",
	SampleS16:  "s16",
	SampleS24:  "s24",
	SampleS32:  "s32",
	SampleF32:  "flt",
	SampleU8P:  "u8p",
	SampleS16P: "s16p",
	SampleS24P: "s24p",
	SampleS32P: "s32p",
	SampleF32P: "fltp",
}

func (f SampleFormat) String() string {
	if f < 0 || int(f) >= len(sampleFormatNames) {
		return fmt.Sprintf("sample_fmt(%d)", int(f))
	}
	return sampleFormatNames[f]
}

// BytesPerSample returns the size of one sample of one channel, 0 for SampleNone.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case SampleU8, SampleU8P:
		return 1
	case SampleS16, SampleS16P:
		return 2
	case SampleS24, SampleS24P:
		return 3
	case SampleS32, SampleS32P, SampleF32, SampleF32P:
		return 4
	default:
		return 0
	}
}

func (f SampleFormat) IsPlanar() bool {
	return f >= SampleU8P && f <= SampleF32P
}

func (f SampleFormat) IsFloat() bool {
	return f == SampleF32 || f == SampleF32P
}

// Rational is a fraction used for time bases.
type Rational struct {
	Num int64
	Den int64
}

// Seconds converts ts units of r into seconds.
func (r Rational) Seconds(ts int64) float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(ts) * float64(r.Num) / float64(r.Den)
}
