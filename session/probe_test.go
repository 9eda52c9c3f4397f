// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audpull/audio"
	"github.com/ik5/audpull/dsd"
	"github.com/ik5/audpull/internal/audiotest"
)

func TestProbe_PCM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "track.pcm")
	if err := os.WriteFile(path, make([]byte, 2000), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newPCMDemuxer()
	info, err := Probe(newTestRegistry(d, audio.NewRawCodec), "file://"+path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	want := Info{
		Codec:         "pcm_s16le",
		Duration:      100 * time.Millisecond,
		BitsPerSample: 16,
		Channels:      2,
		SampleRate:    "8000",
		FileSize:      2000,
		Bitrate:       160,
	}
	if info != want {
		t.Errorf("Probe() = %+v\nwant %+v", info, want)
	}
	if d.CloseCall != 1 {
		t.Errorf("demuxer closed %d times, want 1", d.CloseCall)
	}
}

func TestProbe_BitrateRounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want int
	}{
		{2000, 160},
		{2019, 162}, // 161.52 kbit/s
		{2006, 160}, // 160.48 kbit/s
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "track.pcm")
		if err := os.WriteFile(path, make([]byte, tt.size), 0o644); err != nil {
			t.Fatal(err)
		}

		info, err := Probe(newTestRegistry(newPCMDemuxer(), audio.NewRawCodec), path)
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if info.Bitrate != tt.want {
			t.Errorf("%d bytes over 100ms: Bitrate = %d, want %d", tt.size, info.Bitrate, tt.want)
		}
	}
}

func TestProbe_DSD(t *testing.T) {
	t.Parallel()

	d := newDSDDemuxer(audio.CodecDSDLSBFPlanar, 1)
	reg := newTestRegistry(d, audio.NewRawCodec)
	reg.RegisterDecoder(audio.CodecDSDLSBFPlanar, dsd.NewDecoder)

	info, err := Probe(reg, "missing.dsf")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if info.BitsPerSample != 1 || info.SampleRate != "2.8224M" || info.Codec != "dsd_lsbf_planar" {
		t.Errorf("Probe() = %+v", info)
	}
	if info.FileSize != 0 || info.Bitrate != 0 {
		t.Errorf("size/bitrate of a missing file = %d/%d, want 0/0", info.FileSize, info.Bitrate)
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(audiotest.NewPCM16Demuxer(8000, 1, 10, 10, audiotest.Silence), audio.NewRawCodec)

	if _, err := Probe(reg, "smb://host/a.pcm"); !errors.Is(err, ErrNotLocal) {
		t.Errorf("Probe(smb) error = %v, want %v", err, ErrNotLocal)
	}
	if _, err := Probe(reg, "a.ogg"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Probe(ogg) error = %v, want %v", err, ErrUnknownFormat)
	}
	if _, err := Probe(nil, "a.pcm"); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("Probe(nil) error = %v, want %v", err, ErrNoRegistry)
	}
}
