// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/internal/audiotest"
)

func TestPacketSource_SkipsOtherStreams(t *testing.T) {
	t.Parallel()

	streams := []audio.Stream{
		{Index: 0, Kind: audio.MediaVideo},
		{Index: 1, Kind: audio.MediaAudio, TimeBase: audio.Rational{Num: 1, Den: 1000}},
	}
	pkts := []audio.Packet{
		{StreamIndex: 0, Data: []byte{0xAA}},
		{StreamIndex: 1, Data: []byte{1}},
		{StreamIndex: 0, Data: []byte{0xBB}},
		{StreamIndex: 0, Data: []byte{0xCC}},
		{StreamIndex: 1, Data: []byte{2}},
	}
	d := audiotest.NewMockDemuxer(streams, time.Second, pkts)
	src := newPacketSource(d, streams[1], nopSink{}, log.New(io.Discard, "", 0))

	var got []byte
	for {
		pkt, ok := src.Next()
		if !ok {
			break
		}
		got = append(got, pkt.Data...)
	}

	if string(got) != "\x01\x02" {
		t.Errorf("payloads = % x, want 01 02", got)
	}
}

func TestPacketSource_StaysEndedUntilRewind(t *testing.T) {
	t.Parallel()

	d := audiotest.NewPCM16Demuxer(8000, 1, 20, 10, audiotest.Silence)
	d.FailAt(1, audio.ErrFatal)
	src := newPacketSource(d, d.Streams()[0], nopSink{}, nil)

	if _, ok := src.Next(); !ok {
		t.Fatal("Next() = false for the first packet")
	}
	if _, ok := src.Next(); ok {
		t.Fatal("Next() = true after a fatal error")
	}
	if _, ok := src.Next(); ok {
		t.Fatal("Next() = true after the stream ended")
	}

	src.Rewind()
	if _, ok := src.Next(); !ok {
		t.Error("Next() = false after Rewind")
	}
}

type bitrateSink struct{ last int }

func (bitrateSink) SetFileType(string)    {}
func (b *bitrateSink) SetBitrate(kbps int) { b.last = kbps }

func TestPacketSource_Bitrate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pkt  audio.Packet
		tb   audio.Rational
		want int
	}{
		{"128k", audio.Packet{Data: make([]byte, 16000), Duration: 1000}, audio.Rational{Num: 1, Den: 1000}, 128},
		{"container size", audio.Packet{Data: make([]byte, 16000), Size: 4000, Duration: 1000}, audio.Rational{Num: 1, Den: 1000}, 32},
		{"unknown duration", audio.Packet{Data: make([]byte, 16000)}, audio.Rational{Num: 1, Den: 1000}, 0},
		{"no time base", audio.Packet{Data: make([]byte, 16000), Duration: 10}, audio.Rational{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := audio.Stream{Kind: audio.MediaAudio, TimeBase: tt.tb}
			d := audiotest.NewMockDemuxer([]audio.Stream{st}, 0, []audio.Packet{tt.pkt})
			sink := &bitrateSink{}
			src := newPacketSource(d, st, sink, nil)

			if _, ok := src.Next(); !ok {
				t.Fatal("Next() = false")
			}
			if sink.last != tt.want {
				t.Errorf("bitrate = %d, want %d", sink.last, tt.want)
			}
		})
	}
}

func TestPacketSource_EOF(t *testing.T) {
	t.Parallel()

	d := audiotest.NewMockDemuxer([]audio.Stream{{Kind: audio.MediaAudio}}, 0, nil)
	d.FailAt(0, errors.New("transient"))
	src := newPacketSource(d, d.Streams()[0], nopSink{}, nil)

	if _, ok := src.Next(); ok {
		t.Error("Next() = true on an empty stream")
	}
}
