package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestReadLE(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint16(513))
	binary.Write(buf, binary.LittleEndian, uint32(67305985))
	binary.Write(buf, binary.LittleEndian, uint64(578437695752307201))

	data := buf.Bytes()
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	tests := []struct {
		name     string
		readFunc func() (uint64, error)
		want     uint64
	}{
		{
			name: "uint16 little-endian",
			readFunc: func() (uint64, error) {
				val, err := ReadLE[uint16](sr, 0, "uint16")
				return uint64(val), err
			},
			want: 513,
		},
		{
			name: "uint32 little-endian",
			readFunc: func() (uint64, error) {
				val, err := ReadLE[uint32](sr, 2, "uint32")
				return uint64(val), err
			},
			want: 67305985,
		},
		{
			name: "uint64 little-endian",
			readFunc: func() (uint64, error) {
				val, err := ReadLE[uint64](sr, 6, "uint64")
				return uint64(val), err
			},
			want: 578437695752307201,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.readFunc()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadBE(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x28, 0x01, 0x02}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	val32, err := ReadBE[uint32](sr, 0, "header block length")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val32 != 40 {
		t.Errorf("got %d, want 40", val32)
	}

	val16, err := ReadBE[uint16](sr, 4, "uint16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val16 != 258 {
		t.Errorf("got %d, want 258", val16)
	}
}

func TestReadTag(t *testing.T) {
	data := []byte("SONGxxxxSGHD")
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	tag, err := sr.ReadTag(0, "container magic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "SONG" {
		t.Errorf("got %q, want %q", tag, "SONG")
	}

	tag, err = sr.ReadTag(8, "sub-header magic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "SGHD" {
		t.Errorf("got %q, want %q", tag, "SGHD")
	}
}

func TestReadAt_OffsetOutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	buf := make([]byte, 4)
	err := sr.ReadAt(buf, 100, "descriptor record")
	if err == nil {
		t.Fatal("expected error for out-of-bounds offset")
	}

	var trunc *TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("expected *TruncatedInputError, got %T", err)
	}
	if trunc.What != "descriptor record" {
		t.Errorf("What = %q, want %q", trunc.What, "descriptor record")
	}
	if trunc.Offset != 100 {
		t.Errorf("Offset = %d, want 100", trunc.Offset)
	}
	for _, substr := range []string{"test.he4", "offset 100", "descriptor record"} {
		if !strings.Contains(err.Error(), substr) {
			t.Errorf("error message %q should contain %q", err.Error(), substr)
		}
	}
}

func TestReadAt_ReadExceedsSize(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	buf := make([]byte, 8)
	err := sr.ReadAt(buf, 2, "payload data")
	if err == nil {
		t.Fatal("expected error when read exceeds source size")
	}

	var trunc *TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("expected *TruncatedInputError, got %T", err)
	}
	if trunc.Want != 8 {
		t.Errorf("Want = %d, want 8", trunc.Want)
	}
	if trunc.Got != 4 {
		t.Errorf("Got = %d, want 4", trunc.Got)
	}
}

func TestReadAt_ExactEnd(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.he4")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 2, "tail"); err != nil {
		t.Fatalf("unexpected error reading up to exact end: %v", err)
	}
	if buf[0] != 0x03 || buf[1] != 0x04 {
		t.Errorf("got % x, want 03 04", buf)
	}
}
