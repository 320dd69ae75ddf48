package msgframe

// Bitmap sizing. Under a binary-style encoding the field's Length counts
// bits; under a character encoding it counts wire bytes, each carrying one
// hex character (4 bits).

// bitmapCapacityBits returns how many control bits the field can hold.
func bitmapCapacityBits(f *FieldSchema, codecName string) int {
	if isBinaryStyle(codecName) {
		return f.Length
	}
	return f.Length * 4
}

// bitmapWireBytes returns the field's on-wire size.
func bitmapWireBytes(f *FieldSchema, codecName string) int {
	if isBinaryStyle(codecName) {
		return (f.Length + 7) / 8
	}
	return f.Length
}

// bitmapRawLen returns the size of the underlying bit array in bytes, sized
// to hold the full bit capacity even when a character-encoded field has an
// odd Length.
func bitmapRawLen(f *FieldSchema, codecName string) int {
	if isBinaryStyle(codecName) {
		return (f.Length + 7) / 8
	}
	return (f.Length + 1) / 2
}

// expandControls builds the raw bitmap: bit i (MSB of byte 0 first) is set
// iff present reports a value for Controls[i].
func expandControls(f *FieldSchema, codecName string, present func(id int) bool) []byte {
	raw := make([]byte, bitmapRawLen(f, codecName))
	for i, id := range f.Controls {
		if present(id) {
			raw[i/8] |= 0x80 >> (i % 8)
		}
	}
	return raw
}

// writeBitmap emits the raw bitmap: pass-through under a binary-style
// encoding, otherwise as uppercase hex characters in the field's character
// set.
func writeBitmap(f *FieldSchema, codecName string, raw []byte, out *Buffer) {
	if isBinaryStyle(codecName) {
		out.Write(raw)
		return
	}
	text := make([]byte, len(raw)*2)
	encodeHexUpper(text, raw)
	// An odd Length renders one nibble fewer than the raw array holds; the
	// dropped low nibble sits beyond the field's bit capacity and is always
	// zero.
	text = text[:bitmapWireBytes(f, codecName)]
	if codecName == CodecEBCDIC {
		for i, ch := range text {
			text[i] = asciiToEBCDIC[ch]
		}
	}
	out.Write(text)
}

// readBitmap consumes a bitmap field's wire bytes and returns the value the
// parser stores: a byte slice under binary-style encodings, otherwise the
// character form translated to ASCII.
func readBitmap(f *FieldSchema, codecName string, in *Reader) (interface{}, error) {
	raw, err := in.Take(bitmapWireBytes(f, codecName))
	if err != nil {
		return nil, err
	}
	if isBinaryStyle(codecName) {
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return cp, nil
	}
	buf := make([]byte, len(raw))
	for i, b := range raw {
		if codecName == CodecEBCDIC {
			buf[i] = ebcdicToASCII[b]
		} else {
			buf[i] = b
		}
	}
	return string(buf), nil
}
