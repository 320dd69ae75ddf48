package msgframe

import (
	"fmt"
	"strings"
)

// HexCodec carries a byte range as its uppercase two-character-per-byte hex
// representation. For this codec, Length and dataLength denote bytes, not
// characters: a fixed field of length N renders exactly N wire bytes from
// N*2 hex characters.
type HexCodec struct{}

// Name implements Codec.
func (HexCodec) Name() string { return CodecHex }

// ByteLength is the identity: the length unit is already bytes.
func (HexCodec) ByteLength(dataLength int) int {
	return dataLength
}

// ValueLength reports a hex value's size in bytes for length prefixes.
func (HexCodec) ValueLength(value interface{}) (int, error) {
	switch x := value.(type) {
	case string:
		return (len(x) + 1) / 2, nil
	case []byte:
		return len(x), nil
	}
	return 0, fmt.Errorf("%w: unsupported value type %T", ErrFormatError, value)
}

// Encode packs pairs of hex characters into bytes. Fixed-length fields are
// left-padded with '0' characters or truncated keeping the rightmost
// Length*2 characters.
func (c HexCodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	var s string
	switch x := value.(type) {
	case string:
		s = strings.ToUpper(strings.TrimSpace(x))
	case []byte:
		buf := make([]byte, len(x)*2)
		encodeHexUpper(buf, x)
		s = string(buf)
	default:
		return fmt.Errorf("%w: unsupported value type %T", ErrFormatError, value)
	}
	if !field.IsVariable() {
		s = fitFixed(s, field.Length*2, '0', PadLeft)
	} else if len(s)%2 == 1 {
		s = "0" + s
	}
	for i := 0; i < len(s); i += 2 {
		b, err := hexPair(s[i], s[i+1])
		if err != nil {
			return err
		}
		out.WriteByte(b)
	}
	return nil
}

// Decode returns dataLength bytes as their uppercase hex string.
func (c HexCodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(dataLength)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(raw)*2)
	encodeHexUpper(buf, raw)
	return string(buf), nil
}

// EncodeLength uses the default zero-padded decimal rendering.
func (c HexCodec) EncodeLength(length, digits int, out *Buffer) error {
	return encodeDecimalLength(c, length, digits, out)
}

// DecodeLength mirrors EncodeLength.
func (c HexCodec) DecodeLength(in *Reader, digits int) (int, error) {
	return decodeDecimalLength(c, in, digits)
}

// hexPair converts two hex characters to one byte.
func hexPair(c1, c2 byte) (byte, error) {
	hi, ok1 := hexVal(c1)
	lo, ok2 := hexVal(c2)
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: invalid hex characters %q", ErrFormatError, string([]byte{c1, c2}))
	}
	return hi<<4 | lo, nil
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
