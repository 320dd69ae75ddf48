package msgframe

import (
	"fmt"
	"strings"
)

// Packed-decimal sign nibbles.
const (
	packedSignPositive = 0x0C
	packedSignNegative = 0x0D
	packedSignUnsigned = 0x0F
)

// PackedCodec implements COBOL-style packed decimal: digits two per byte, the
// last byte carrying the final digit in its high nibble and the sign in its
// low nibble.
type PackedCodec struct{}

// Name implements Codec.
func (PackedCodec) Name() string { return CodecPacked }

// ByteLength returns the wire size of a digit count: digit nibbles plus one
// sign nibble, rounded up to whole bytes.
func (PackedCodec) ByteLength(dataLength int) int {
	return dataLength/2 + 1
}

// Encode renders the value's digits with a trailing sign nibble. A leading
// '-' selects the negative sign; other non-digits are stripped. Fixed-length
// fields pad or truncate to the declared digit count, and an even digit count
// gets one leading zero so the first byte is fully populated.
func (c PackedCodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	s, err := textValue(value)
	if err != nil {
		return err
	}
	sign := byte(packedSignPositive)
	if strings.HasPrefix(strings.TrimSpace(s), "-") {
		sign = packedSignNegative
	}
	digits := stripNonDigits(s)
	if !field.IsVariable() {
		digits = fitFixed(digits, field.Length, '0', PadLeft)
	}
	if len(digits)%2 == 0 {
		digits = "0" + digits
	}
	// All but the final digit pack in pairs; the final digit shares its byte
	// with the sign nibble.
	for i := 0; i+1 < len(digits); i += 2 {
		out.WriteByte((digits[i]-'0')<<4 | (digits[i+1] - '0'))
	}
	out.WriteByte((digits[len(digits)-1]-'0')<<4 | sign)
	return nil
}

// Decode reads the digits and sign back. The result is trimmed to the
// rightmost dataLength digits and prefixed with '-' when the sign nibble is
// negative.
func (c PackedCodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(c.ByteLength(dataLength))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(raw)*2)
	for i, b := range raw {
		hi, lo := b>>4, b&0x0f
		if i == len(raw)-1 {
			if hi > 9 {
				return nil, fmt.Errorf("%w: non-decimal nibble 0x%02X", ErrFormatError, b)
			}
			buf = append(buf, '0'+hi)
			break
		}
		if hi > 9 || lo > 9 {
			return nil, fmt.Errorf("%w: non-decimal nibble 0x%02X", ErrFormatError, b)
		}
		buf = append(buf, '0'+hi, '0'+lo)
	}
	digits := keepRight(string(buf), dataLength)
	if raw[len(raw)-1]&0x0f == packedSignNegative {
		return "-" + digits, nil
	}
	return digits, nil
}

// EncodeLength uses the default zero-padded decimal rendering.
func (c PackedCodec) EncodeLength(length, digits int, out *Buffer) error {
	return encodeDecimalLength(c, length, digits, out)
}

// DecodeLength mirrors EncodeLength.
func (c PackedCodec) DecodeLength(in *Reader, digits int) (int, error) {
	return decodeDecimalLength(c, in, digits)
}
