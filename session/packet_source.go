// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"io"

	"github.com/ik5/audpull/audio"
)

// maxReadErrors is the number of consecutive transient read failures
// tolerated before the stream is treated as ended.
const maxReadErrors = 4

// PacketSource pulls packets of one stream from a demuxer.
type PacketSource struct {
	demux    audio.Demuxer
	stream   int
	timeBase audio.Rational

	sink   MetadataSink
	logger Logger
	ended  bool
}

func newPacketSource(d audio.Demuxer, s audio.Stream, sink MetadataSink, logger Logger) *PacketSource {
	return &PacketSource{
		demux:    d,
		stream:   s.Index,
		timeBase: s.TimeBase,
		sink:     sink,
		logger:   logger,
	}
}

// Next returns the next packet of the selected stream. Packets of other
// streams are skipped. It returns false at end of stream, on a fatal error
// or after more than maxReadErrors transient errors in a row, and keeps
// returning false until Rewind.
func (p *PacketSource) Next() (audio.Packet, bool) {
	if p.ended {
		return audio.Packet{}, false
	}

	pkt, ok := p.next()
	if !ok {
		p.ended = true
	}
	return pkt, ok
}

// Rewind clears the end of stream state after a seek.
func (p *PacketSource) Rewind() { p.ended = false }

func (p *PacketSource) next() (audio.Packet, bool) {
	errCount := 0

	for {
		pkt, err := p.demux.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return audio.Packet{}, false
			}
			if errors.Is(err, audio.ErrFatal) {
				logf(p.logger, "session: packet read failed: %v", err)
				return audio.Packet{}, false
			}

			errCount++
			if errCount > maxReadErrors {
				logf(p.logger, "session: too many errors in a row (last is %v); interrupting stream", err)
				return audio.Packet{}, false
			}
			continue
		}
		errCount = 0

		if pkt.StreamIndex != p.stream {
			continue
		}

		p.reportBitrate(pkt)
		return pkt, true
	}
}

func (p *PacketSource) reportBitrate(pkt audio.Packet) {
	if pkt.Duration <= 0 {
		return
	}

	sec := p.timeBase.Seconds(pkt.Duration)
	if sec <= 0 {
		return
	}

	if bitrate := int(float64(pkt.Bytes()*8) / sec); bitrate > 0 {
		p.sink.SetBitrate(bitrate / 1000)
	}
}
