package msgframe

import (
	"bytes"
	"errors"
	"testing"
)

func TestPackedCodec_EncodeFixed(t *testing.T) {
	c := PackedCodec{}
	f := &FieldSchema{Type: FieldNumeric, Length: 2}
	got := encodeWith(t, c, "42", f)
	if !bytes.Equal(got, []byte{0x04, 0x2C}) {
		t.Errorf("Encode(42) = % X, want 04 2C", got)
	}
}

func TestPackedCodec_EncodeNegative(t *testing.T) {
	c := PackedCodec{}
	f := &FieldSchema{Type: FieldNumeric, Length: 3, LengthType: LengthLLVAR}
	got := encodeWith(t, c, "-123", f)
	if !bytes.Equal(got, []byte{0x12, 0x3D}) {
		t.Errorf("Encode(-123) = % X, want 12 3D", got)
	}
}

func TestPackedCodec_Decode(t *testing.T) {
	c := PackedCodec{}
	f := &FieldSchema{Type: FieldNumeric, Length: 3}

	v, err := c.Decode(NewReader([]byte{0x12, 0x3C}), f, 3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v != "123" {
		t.Errorf("Decode = %q, want %q", v, "123")
	}

	v, err = c.Decode(NewReader([]byte{0x12, 0x3D}), f, 3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v != "-123" {
		t.Errorf("Decode = %q, want %q", v, "-123")
	}
}

func TestPackedCodec_RoundTrip(t *testing.T) {
	c := PackedCodec{}
	tests := []struct {
		value  string
		length int
	}{
		{"0", 1},
		{"42", 2},
		{"-123", 4},
		{"99999999", 8},
		{"-1", 6},
	}
	for _, tt := range tests {
		f := &FieldSchema{Type: FieldNumeric, Length: tt.length}
		raw := encodeWith(t, c, tt.value, f)
		if len(raw) != c.ByteLength(tt.length) {
			t.Errorf("Encode(%q) wrote %d bytes, want %d", tt.value, len(raw), c.ByteLength(tt.length))
		}
		v, err := c.Decode(NewReader(raw), f, tt.length)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tt.value, err)
		}
		want := tt.value
		if neg := want[0] == '-'; neg {
			want = "-" + leftPadZeros(want[1:], tt.length)
		} else {
			want = leftPadZeros(want, tt.length)
		}
		if v != want {
			t.Errorf("round trip %q (len %d) = %q, want %q", tt.value, tt.length, v, want)
		}
	}
}

func leftPadZeros(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func TestPackedCodec_DecodeBadNibble(t *testing.T) {
	c := PackedCodec{}
	f := &FieldSchema{Type: FieldNumeric, Length: 3}
	if _, err := c.Decode(NewReader([]byte{0xAB, 0x3C}), f, 3); !errors.Is(err, ErrFormatError) {
		t.Fatalf("expected ErrFormatError, got %v", err)
	}
}

func TestPackedCodec_ByteLength(t *testing.T) {
	c := PackedCodec{}
	// n digits plus a sign nibble, whole bytes.
	if got := c.ByteLength(3); got != 2 {
		t.Errorf("ByteLength(3) = %d, want 2", got)
	}
	if got := c.ByteLength(4); got != 3 {
		t.Errorf("ByteLength(4) = %d, want 3", got)
	}
}
