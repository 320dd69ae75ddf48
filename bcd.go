package msgframe

import "fmt"

// BCDCodec packs two decimal digits per byte, high nibble first. Non-digit
// characters in the input are stripped rather than rejected.
type BCDCodec struct{}

// Name implements Codec.
func (BCDCodec) Name() string { return CodecBCD }

// ByteLength returns the wire size of a digit count: two digits per byte,
// rounded up.
func (BCDCodec) ByteLength(dataLength int) int {
	return (dataLength + 1) / 2
}

// Encode renders the value's digits. Fixed-length fields are left-padded with
// zeros or truncated keeping the rightmost digits; an odd digit count gets one
// leading zero so packing stays byte-aligned.
func (c BCDCodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	s, err := textValue(value)
	if err != nil {
		return err
	}
	digits := stripNonDigits(s)
	if !field.IsVariable() {
		digits = fitFixed(digits, field.Length, '0', PadLeft)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	for i := 0; i < len(digits); i += 2 {
		out.WriteByte((digits[i]-'0')<<4 | (digits[i+1] - '0'))
	}
	return nil
}

// Decode unpacks each byte into two digit characters. When the unpacked
// string is longer than dataLength, the rightmost dataLength characters are
// kept, discarding the encode-time pad digit.
func (c BCDCodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(c.ByteLength(dataLength))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		hi, lo := b>>4, b&0x0f
		if hi > 9 || lo > 9 {
			return nil, fmt.Errorf("%w: non-decimal nibble 0x%02X", ErrFormatError, b)
		}
		buf = append(buf, '0'+hi, '0'+lo)
	}
	return keepRight(string(buf), dataLength), nil
}

// EncodeLength uses the default zero-padded decimal rendering.
func (c BCDCodec) EncodeLength(length, digits int, out *Buffer) error {
	return encodeDecimalLength(c, length, digits, out)
}

// DecodeLength mirrors EncodeLength.
func (c BCDCodec) DecodeLength(in *Reader, digits int) (int, error) {
	return decodeDecimalLength(c, in, digits)
}
