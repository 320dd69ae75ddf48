package msgframe

import (
	"bytes"
	"errors"
	"testing"
)

func TestHexCodec_EncodeFixed(t *testing.T) {
	c := HexCodec{}
	tests := []struct {
		value  interface{}
		length int // bytes
		want   []byte
	}{
		{"1A2B", 2, []byte{0x1A, 0x2B}},
		{"ABCD", 4, []byte{0x00, 0x00, 0xAB, 0xCD}}, // length counts bytes, not characters
		{"f0", 2, []byte{0x00, 0xF0}},                // lowercase accepted, zero-padded
		{"ABCDEF", 2, []byte{0xCD, 0xEF}},            // truncated keeping rightmost
		{[]byte{0xDE, 0xAD}, 2, []byte{0xDE, 0xAD}},  // byte input passes via hex form
	}
	for _, tt := range tests {
		f := &FieldSchema{Type: FieldBinary, Length: tt.length, Encoding: CodecHex}
		got := encodeWith(t, c, tt.value, f)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Encode(%v) = % X, want % X", tt.value, got, tt.want)
		}
	}
}

func TestHexCodec_EncodeVariableOddDigits(t *testing.T) {
	c := HexCodec{}
	f := &FieldSchema{Type: FieldBinary, Length: 8, LengthType: LengthLLVAR, Encoding: CodecHex}
	got := encodeWith(t, c, "ABC", f)
	if !bytes.Equal(got, []byte{0x0A, 0xBC}) {
		t.Errorf("Encode(ABC) = % X, want 0A BC", got)
	}
}

func TestHexCodec_EncodeInvalid(t *testing.T) {
	c := HexCodec{}
	f := &FieldSchema{Type: FieldBinary, Length: 2, Encoding: CodecHex}
	if err := c.Encode("ZZZZ", f, &Buffer{}); !errors.Is(err, ErrFormatError) {
		t.Fatalf("expected ErrFormatError, got %v", err)
	}
	if err := c.Encode(42, f, &Buffer{}); !errors.Is(err, ErrFormatError) {
		t.Fatalf("expected ErrFormatError for int value, got %v", err)
	}
}

func TestHexCodec_Decode(t *testing.T) {
	c := HexCodec{}
	f := &FieldSchema{Type: FieldBinary, Length: 3, Encoding: CodecHex}
	v, err := c.Decode(NewReader([]byte{0xDE, 0xAD, 0xBE}), f, 3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v != "DEADBE" {
		t.Errorf("Decode = %q, want %q", v, "DEADBE")
	}
}

func TestHexCodec_ValueLength(t *testing.T) {
	c := HexCodec{}
	tests := []struct {
		value interface{}
		want  int
	}{
		{"AABB", 2},
		{"ABC", 2}, // odd digit count rounds up
		{[]byte{1, 2, 3}, 3},
	}
	for _, tt := range tests {
		got, err := c.ValueLength(tt.value)
		if err != nil {
			t.Fatalf("ValueLength(%v) failed: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("ValueLength(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
