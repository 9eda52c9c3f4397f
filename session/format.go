// SPDX-License-Identifier: EPL-2.0

package session

import (
	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/dsd"
)

// DSDKind is the DSD encoding of the output, if any.
type DSDKind int

const (
	DSDKindNone DSDKind = iota
	DSDKindDirect
	DSDKindDoP
)

func (k DSDKind) String() string {
	switch k {
	case DSDKindDirect:
		return "direct"
	case DSDKindDoP:
		return "dop"
	default:
		return "none"
	}
}

// OutputFormat is the byte layout delivered by Read. IsFloat is never set
// together with a DSD kind.
type OutputFormat struct {
	BitsPerSample int
	// SampleRate is the rate advertised to the output stage.
	SampleRate  int
	Channels    int
	ChannelMask uint32
	IsFloat     bool
	DSD         DSDKind
	// FrameRate is the number of frames Read produces per second of audio.
	// For DSD output it follows the bit rate and the unit width rather than
	// the advertised rung. Windows and positions count these frames.
	FrameRate int
}

// FrameSize is the size in bytes of one sample across all channels.
func (f OutputFormat) FrameSize() int {
	return f.Channels * f.BitsPerSample / 8
}

// CodecParams are the codec properties the output format depends on.
type CodecParams struct {
	Codec        audio.CodecID
	SampleFormat audio.SampleFormat
	SampleRate   int
	Channels     int
}

func paramsOf(s audio.Stream) CodecParams {
	return CodecParams{
		Codec:        s.Codec,
		SampleFormat: s.SampleFormat,
		SampleRate:   s.SampleRate,
		Channels:     s.Channels,
	}
}

// DeriveFormat computes the advertised output format. The boolean is false
// when a DSD bit rate was not recognized and the lowest rate rung was used.
func DeriveFormat(p CodecParams, cfg Config) (OutputFormat, bool) {
	f := OutputFormat{
		BitsPerSample: p.SampleFormat.BytesPerSample() * 8,
		SampleRate:    p.SampleRate,
		Channels:      p.Channels,
		ChannelMask:   channelMask(p.Channels),
		IsFloat:       p.SampleFormat.IsFloat(),
		FrameRate:     p.SampleRate,
	}

	if p.Codec.DSD() == audio.DSDNone {
		return f, true
	}

	ok := true
	bitRate := p.SampleRate * 8

	switch cfg.DSDMode {
	case DSDModeDirect:
		f.IsFloat = false
		f.DSD = DSDKindDirect
		f.BitsPerSample = cfg.DSDBits
		f.SampleRate, ok = dsd.DirectRate(bitRate)
		// one frame carries UnitSize DSD bytes per channel
		f.FrameRate = p.SampleRate / dsd.UnitSize(cfg.DSDBits)
	case DSDModeDoP:
		f.IsFloat = false
		f.DSD = DSDKindDoP
		f.BitsPerSample = dsd.DoPBitsPerSample
		f.SampleRate, ok = dsd.DoPRate(bitRate)
		f.FrameRate = p.SampleRate / 2
	}

	return f, ok
}

func channelMask(channels int) uint32 {
	var mask uint32
	for i := 0; i < channels && i < 32; i++ {
		mask |= 1 << i
	}
	return mask
}
