package msgframe

import "fmt"

// ASCIICodec writes one byte per character, unmodified.
type ASCIICodec struct{}

// Name implements Codec.
func (ASCIICodec) Name() string { return CodecASCII }

// ByteLength is one byte per character.
func (ASCIICodec) ByteLength(dataLength int) int {
	return dataLength
}

// Encode writes the value's characters, padding or truncating fixed-length
// fields per the field's pad settings.
func (c ASCIICodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	s, err := textValue(value)
	if err != nil {
		return err
	}
	if !field.IsVariable() {
		s = fitFixed(s, field.Length, field.padChar(), field.PadDir)
	}
	out.Write([]byte(s))
	return nil
}

// Decode returns dataLength bytes as a string.
func (c ASCIICodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(dataLength)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// EncodeLength uses the default zero-padded decimal rendering.
func (c ASCIICodec) EncodeLength(length, digits int, out *Buffer) error {
	return encodeDecimalLength(c, length, digits, out)
}

// DecodeLength mirrors EncodeLength.
func (c ASCIICodec) DecodeLength(in *Reader, digits int) (int, error) {
	return decodeDecimalLength(c, in, digits)
}

// EBCDICCodec transcodes between ASCII text values and EBCDIC (code page
// 037) wire bytes, one byte per character.
type EBCDICCodec struct{}

// Name implements Codec.
func (EBCDICCodec) Name() string { return CodecEBCDIC }

// ByteLength is one byte per character.
func (EBCDICCodec) ByteLength(dataLength int) int {
	return dataLength
}

// Encode transcodes the value to EBCDIC, padding or truncating fixed-length
// fields per the field's pad settings before transcoding.
func (c EBCDICCodec) Encode(value interface{}, field *FieldSchema, out *Buffer) error {
	s, err := textValue(value)
	if err != nil {
		return err
	}
	if !field.IsVariable() {
		s = fitFixed(s, field.Length, field.padChar(), field.PadDir)
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch > 0x7f {
			return fmt.Errorf("%w: character 0x%02X has no EBCDIC mapping", ErrFormatError, ch)
		}
		out.WriteByte(asciiToEBCDIC[ch])
	}
	return nil
}

// Decode transcodes dataLength EBCDIC bytes back to an ASCII string.
// Unmapped code points decode as '?'.
func (c EBCDICCodec) Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error) {
	raw, err := in.Take(dataLength)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(raw))
	for i, b := range raw {
		buf[i] = ebcdicToASCII[b]
	}
	return string(buf), nil
}

// EncodeLength uses the default zero-padded decimal rendering.
func (c EBCDICCodec) EncodeLength(length, digits int, out *Buffer) error {
	return encodeDecimalLength(c, length, digits, out)
}

// DecodeLength mirrors EncodeLength.
func (c EBCDICCodec) DecodeLength(in *Reader, digits int) (int, error) {
	return decodeDecimalLength(c, in, digits)
}

// asciiToEBCDIC is the CP037 mapping for the 7-bit ASCII range.
var asciiToEBCDIC = [128]byte{
	0x00, 0x01, 0x02, 0x03, 0x37, 0x2D, 0x2E, 0x2F, // 00-07
	0x16, 0x05, 0x25, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, // 08-0F
	0x10, 0x11, 0x12, 0x13, 0x3C, 0x3D, 0x32, 0x26, // 10-17
	0x18, 0x19, 0x3F, 0x27, 0x1C, 0x1D, 0x1E, 0x1F, // 18-1F
	0x40, 0x5A, 0x7F, 0x7B, 0x5B, 0x6C, 0x50, 0x7D, // space ! " # $ % & '
	0x4D, 0x5D, 0x5C, 0x4E, 0x6B, 0x60, 0x4B, 0x61, // ( ) * + , - . /
	0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, // 0-7
	0xF8, 0xF9, 0x7A, 0x5E, 0x4C, 0x7E, 0x6E, 0x6F, // 8 9 : ; < = > ?
	0x7C, 0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7, // @ A-G
	0xC8, 0xC9, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, // H-O
	0xD7, 0xD8, 0xD9, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, // P-W
	0xE7, 0xE8, 0xE9, 0xBA, 0xE0, 0xBB, 0xB0, 0x6D, // X Y Z [ \ ] ^ _
	0x79, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, // ` a-g
	0x88, 0x89, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, // h-o
	0x97, 0x98, 0x99, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, // p-w
	0xA7, 0xA8, 0xA9, 0xC0, 0x4F, 0xD0, 0xA1, 0x07, // x y z { | } ~ DEL
}

// ebcdicToASCII is derived from asciiToEBCDIC at init; unmapped EBCDIC code
// points come back as '?'.
var ebcdicToASCII [256]byte

func init() {
	for i := range ebcdicToASCII {
		ebcdicToASCII[i] = '?'
	}
	for ascii, ebcdic := range asciiToEBCDIC {
		ebcdicToASCII[ebcdic] = byte(ascii)
	}
}
