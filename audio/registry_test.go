// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

type nopDemuxer struct{}

func (nopDemuxer) Streams() []Stream           { return nil }
func (nopDemuxer) Duration() time.Duration     { return 0 }
func (nopDemuxer) ReadPacket() (Packet, error) { return Packet{}, errors.New("empty") }
func (nopDemuxer) Seek(int, int64) error       { return nil }
func (nopDemuxer) Close() error                { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	calls := 0
	registry.RegisterFormat("wav", OpenerFunc(func(path string) (Demuxer, error) {
		calls++
		return nopDemuxer{}, nil
	}))

	got, ok := registry.Format("wav")
	if !ok {
		t.Fatal("Registry.Format() failed to retrieve registered opener")
	}

	if _, err := got.Open("x.wav"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("opener called %d times, want 1", calls)
	}
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterFormat("DSF", OpenerFunc(func(string) (Demuxer, error) { return nopDemuxer{}, nil }))

	tests := []struct {
		path   string
		wantOK bool
	}{
		{"/music/a.dsf", true},
		{"/music/a.DSF", true},
		{"/music/a.Dsf", true},
		{"/music/a.flac", false},
		{"/music/noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, ok := registry.FormatForPath(tt.path)
			if ok != tt.wantOK {
				t.Errorf("FormatForPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
		})
	}
}

func TestRegistry_FindDecoder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterDecoder(CodecPCM, NewRawCodec)

	if _, ok := registry.FindDecoder(CodecPCM); !ok {
		t.Error("FindDecoder(CodecPCM) ok = false, want true")
	}
	if _, ok := registry.FindDecoder(CodecMP3); ok {
		t.Error("FindDecoder(CodecMP3) ok = true, want false")
	}
}

func TestRegistry_Extensions(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	op := OpenerFunc(func(string) (Demuxer, error) { return nopDemuxer{}, nil })
	for _, ext := range []string{"wav", "dsf", "aiff", "Flac"} {
		registry.RegisterFormat(ext, op)
	}

	want := []string{"aiff", "dsf", "flac", "wav"}
	if got := registry.Extensions(); !slices.Equal(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	op := OpenerFunc(func(string) (Demuxer, error) { return nopDemuxer{}, nil })

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry.RegisterFormat(string(rune('a'+i)), op)
			registry.RegisterDecoder(CodecID(i), NewRawCodec)
			registry.Format("a")
			registry.FindDecoder(CodecPCM)
		}(i)
	}
	wg.Wait()

	if n := len(registry.Extensions()); n != 10 {
		t.Errorf("len(Extensions()) = %d, want 10", n)
	}
}
