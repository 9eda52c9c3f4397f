// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestRawCodec_Packed(t *testing.T) {
	t.Parallel()

	c, err := NewRawCodec(Stream{SampleFormat: SampleS16, Channels: 2})
	if err != nil {
		t.Fatalf("NewRawCodec() error = %v", err)
	}

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9} // two frames and a stray byte
	if err := c.SendPacket(Packet{Data: data}); err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}

	var f Frame
	if err := c.ReceiveFrame(&f); err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}

	if f.NbSamples != 2 {
		t.Errorf("NbSamples = %d, want 2", f.NbSamples)
	}
	if len(f.Planes) != 1 || !bytes.Equal(f.Planes[0], data[:8]) {
		t.Errorf("Planes = %v, want one plane %v", f.Planes, data[:8])
	}

	if err := c.ReceiveFrame(&f); !errors.Is(err, ErrAgain) {
		t.Errorf("second ReceiveFrame() error = %v, want ErrAgain", err)
	}
}

func TestRawCodec_Planar(t *testing.T) {
	t.Parallel()

	c, err := NewRawCodec(Stream{SampleFormat: SampleS16P, Channels: 2})
	if err != nil {
		t.Fatalf("NewRawCodec() error = %v", err)
	}

	left := []byte{1, 0, 2, 0, 3, 0}
	right := []byte{9, 0, 8, 0, 7, 0}
	if err := c.SendPacket(Packet{Data: append(append([]byte{}, left...), right...)}); err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}

	var f Frame
	if err := c.ReceiveFrame(&f); err != nil {
		t.Fatalf("ReceiveFrame() error = %v", err)
	}

	if f.NbSamples != 3 {
		t.Errorf("NbSamples = %d, want 3", f.NbSamples)
	}
	if len(f.Planes) != 2 {
		t.Fatalf("len(Planes) = %d, want 2", len(f.Planes))
	}
	if !bytes.Equal(f.Planes[0], left) || !bytes.Equal(f.Planes[1], right) {
		t.Errorf("Planes = %v, want [%v %v]", f.Planes, left, right)
	}
}

func TestRawCodec_SendTwiceNeedsReceive(t *testing.T) {
	t.Parallel()

	c, _ := NewRawCodec(Stream{SampleFormat: SampleU8, Channels: 1})

	if err := c.SendPacket(Packet{Data: []byte{1}}); err != nil {
		t.Fatalf("SendPacket() error = %v", err)
	}
	if err := c.SendPacket(Packet{Data: []byte{2}}); !errors.Is(err, ErrAgain) {
		t.Errorf("SendPacket() while pending error = %v, want ErrAgain", err)
	}

	c.Reset()
	if err := c.SendPacket(Packet{Data: []byte{2}}); err != nil {
		t.Errorf("SendPacket() after Reset error = %v", err)
	}
}

func TestRawCodec_ShortPacket(t *testing.T) {
	t.Parallel()

	c, _ := NewRawCodec(Stream{SampleFormat: SampleS32, Channels: 2})
	if err := c.SendPacket(Packet{Data: []byte{1, 2, 3}}); !errors.Is(err, ErrInvalidFrameSize) {
		t.Errorf("SendPacket() error = %v, want ErrInvalidFrameSize", err)
	}
}

func TestRawCodec_Closed(t *testing.T) {
	t.Parallel()

	c, _ := NewRawCodec(Stream{SampleFormat: SampleU8, Channels: 1})
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := c.SendPacket(Packet{Data: []byte{1}}); !errors.Is(err, ErrClosed) {
		t.Errorf("SendPacket() after Close error = %v, want ErrClosed", err)
	}
}

func TestNewRawCodec_InvalidParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stream Stream
	}{
		{"no sample format", Stream{SampleFormat: SampleNone, Channels: 2}},
		{"zero channels", Stream{SampleFormat: SampleS16, Channels: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRawCodec(tt.stream); err == nil {
				t.Error("NewRawCodec() error = nil, want error")
			}
		})
	}
}
