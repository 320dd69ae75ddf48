package msgframe

import (
	"fmt"
	"strings"
)

// BinaryCodec passes bytes through untouched. String inputs are interpreted
// as hex and converted to bytes first. Length and dataLength denote bytes.
type BinaryCodec struct{}

// Name implements Codec.
func (BinaryCodec) Name() string { return CodecBinary }

// ByteLength is the identity: the length unit is already bytes.
func (BinaryCodec) ByteLength(dataLength int) int {
	return dataLength
}

// ValueLength reports a binary value's size in bytes for length prefixes.
func (BinaryCodec) ValueLength(value interface{}) (int, error) {
	switch x := value.(type) {
	case []byte:
		return len(x), nil
	case string:
		return (len(x) + 1) / 2, nil
	}
	return 0, fmt.Errorf("%w: unsupported value type %T", ErrFormatError, value)
}

// Encode writes the raw bytes. Fixed-length fields left-pad with zero bytes
// or drop leading bytes, keeping the trailing Length bytes.
func (c BinaryCodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	var raw []byte
	switch x := value.(type) {
	case []byte:
		raw = x
	case string:
		s := strings.TrimSpace(x)
		if len(s)%2 == 1 {
			s = "0" + s
		}
		raw = make([]byte, 0, len(s)/2)
		for i := 0; i < len(s); i += 2 {
			b, err := hexPair(s[i], s[i+1])
			if err != nil {
				return err
			}
			raw = append(raw, b)
		}
	default:
		return fmt.Errorf("%w: unsupported value type %T", ErrFormatError, value)
	}
	if !field.IsVariable() {
		if len(raw) > field.Length {
			raw = raw[len(raw)-field.Length:]
		} else if len(raw) < field.Length {
			padded := make([]byte, field.Length)
			copy(padded[field.Length-len(raw):], raw)
			raw = padded
		}
	}
	out.Write(raw)
	return nil
}

// Decode returns a copy of dataLength raw bytes.
func (c BinaryCodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(dataLength)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, nil
}

// EncodeLength overrides the decimal default with a big-endian binary count:
// one byte for a 2-digit indicator, two bytes for 3 or 4 digits.
func (c BinaryCodec) EncodeLength(length, digits int, out *Buffer) error {
	size := binaryPrefixBytes(digits)
	if length < 0 || length >= 1<<(8*size) {
		return fmt.Errorf("%w: length %d does not fit in %d bytes", ErrFormatError, length, size)
	}
	for i := size - 1; i >= 0; i-- {
		out.WriteByte(byte(length >> (8 * i)))
	}
	return nil
}

// DecodeLength mirrors EncodeLength.
func (c BinaryCodec) DecodeLength(in *Reader, digits int) (int, error) {
	raw, err := in.Take(binaryPrefixBytes(digits))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range raw {
		n = n<<8 | int(b)
	}
	return n, nil
}

// binaryPrefixBytes sizes a binary length indicator for a digit count.
func binaryPrefixBytes(digits int) int {
	return (digits + 1) / 2
}
