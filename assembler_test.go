package msgframe

import (
	"bytes"
	"errors"
	"testing"
)

func TestAssembler_FixedAndVariableFields(t *testing.T) {
	schema := &MessageSchema{
		Name:            "mini",
		DefaultEncoding: CodecASCII,
		Fields: []FieldSchema{
			{ID: 1, Type: FieldNumeric, Length: 4, Required: true},
			{ID: 2, Type: FieldAlphanumeric, Length: 10, LengthType: LengthLLVAR},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(1, "42")
	msg.SetField(2, "HELLO")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// "0042", BCD length prefix 0x05, "HELLO".
	want := append([]byte("0042"), 0x05)
	want = append(want, []byte("HELLO")...)
	if !bytes.Equal(data, want) {
		t.Errorf("Assemble = % X, want % X", data, want)
	}
}

func TestAssembler_RequiredFieldMissing(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 7, Type: FieldNumeric, Length: 6, Required: true},
		},
	}
	_, err := NewAssembler(NewRegistry()).Assemble(NewMessage(schema))
	if !errors.Is(err, ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != 7 {
		t.Fatalf("expected FieldError for field 7, got %v", err)
	}
}

func TestAssembler_DefaultValue(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldNumeric, Length: 4, Required: true, Default: "0100"},
		},
	}
	data, err := NewAssembler(NewRegistry()).Assemble(NewMessage(schema))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(data) != "0100" {
		t.Errorf("Assemble = %q, want default 0100", data)
	}
}

func TestAssembler_EmptyDefaultMeansNoDefault(t *testing.T) {
	// An empty Default is "no default": the unset optional field is skipped
	// rather than emitted as a padded empty value.
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldAlphanumeric, Length: 4, Default: ""},
			{ID: 2, Type: FieldNumeric, Length: 2, Required: true},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(2, "42")
	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(data) != "42" {
		t.Errorf("Assemble = %q, want field 1 omitted", data)
	}
}

func TestAssembler_OptionalFieldSkipped(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldNumeric, Length: 2},
			{ID: 2, Type: FieldNumeric, Length: 2},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(2, "99")
	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(data) != "99" {
		t.Errorf("Assemble = %q, want only field 2", data)
	}
}

func TestAssembler_BinaryBitmap(t *testing.T) {
	// Nine controlled fields over a 16-bit bitmap; the second, sixth and
	// ninth hold values.
	controls := []int{10, 11, 12, 13, 14, 15, 16, 17, 18}
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldBitmap, Length: 16, Encoding: CodecBinary, Controls: controls},
			{ID: 11, Type: FieldNumeric, Length: 2},
			{ID: 15, Type: FieldNumeric, Length: 2},
			{ID: 18, Type: FieldNumeric, Length: 2},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(11, "11")
	msg.SetField(15, "15")
	msg.SetField(18, "18")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(data) < 2 {
		t.Fatalf("short output: % X", data)
	}
	if data[0] != 0x44 || data[1] != 0x80 {
		t.Errorf("bitmap = %08b %08b, want 01000100 10000000", data[0], data[1])
	}
	if string(data[2:]) != "111518" {
		t.Errorf("payload = %q, want 111518", data[2:])
	}
}

func TestAssembler_HexBitmap(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldBitmap, Length: 2, Controls: []int{2, 3, 4, 5, 6, 7, 8, 9}},
			{ID: 2, Type: FieldNumeric, Length: 1},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(2, "7")
	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// One raw byte 0x80 rendered as two hex characters.
	if string(data) != "807" {
		t.Errorf("Assemble = %q, want 807", data)
	}
}

func TestAssembler_HexBitmapOddLength(t *testing.T) {
	// Three wire characters carry twelve control bits; a control past the
	// eighth bit must land in the second raw byte without overrunning it.
	controls := []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldBitmap, Length: 3, Controls: controls},
			{ID: 2, Type: FieldNumeric, Length: 1},
			{ID: 10, Type: FieldNumeric, Length: 1},
		},
	}
	if err := schema.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	msg := NewMessage(schema)
	msg.SetField(2, "7")
	msg.SetField(10, "9")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Bits 0 and 8 set: raw 0x80 0x80 rendered as exactly three characters.
	if string(data) != "80879" {
		t.Errorf("Assemble = %q, want 80879", data)
	}

	parsed, err := NewParser(NewRegistry()).Parse(data, schema)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := parsed.GetString(1); got != "808" {
		t.Errorf("bitmap = %q, want 808", got)
	}
	if got := parsed.GetString(2); got != "7" {
		t.Errorf("field 2 = %q, want 7", got)
	}
	if got := parsed.GetString(10); got != "9" {
		t.Errorf("field 10 = %q, want 9", got)
	}
}

func TestAssembler_HeaderLengthPrefixBinary(t *testing.T) {
	schema := &MessageSchema{
		Header: &HeaderSchema{
			LengthPrefix: &LengthPrefixSchema{Bytes: 2, Encoding: CodecBinary},
			Fields: []FieldSchema{
				{ID: 0, Type: FieldNumeric, Length: 4, Required: true},
			},
		},
		Fields: []FieldSchema{
			{ID: 2, Type: FieldAlphanumeric, Length: 6, Required: true},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(0, "0200")
	msg.SetField(2, "ABCDEF")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// 4 + 6 payload bytes, prefix itself not counted.
	want := append([]byte{0x00, 0x0A}, []byte("0200ABCDEF")...)
	if !bytes.Equal(data, want) {
		t.Errorf("Assemble = % X, want % X", data, want)
	}
}

func TestAssembler_HeaderLengthPrefixIncludesOwnBytes(t *testing.T) {
	schema := &MessageSchema{
		Header: &HeaderSchema{
			LengthPrefix: &LengthPrefixSchema{Bytes: 4, Encoding: CodecASCII, IncludesOwnBytes: true},
		},
		Fields: []FieldSchema{
			{ID: 2, Type: FieldAlphanumeric, Length: 6, Required: true},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(2, "ABCDEF")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(data) != "0010ABCDEF" {
		t.Errorf("Assemble = %q, want 0010ABCDEF", data)
	}
}

func TestAssembler_Composite(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 48, Type: FieldComposite, Children: []FieldSchema{
				{ID: 1, Type: FieldNumeric, Length: 3, Required: true},
				{ID: 2, Type: FieldAlphanumeric, Length: 4, PadDir: PadRight},
			}},
		},
	}
	msg := NewMessage(schema)
	msg.SetNestedField(48, 1, "7")
	msg.SetNestedField(48, 2, "AB")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if string(data) != "007AB  " {
		t.Errorf("Assemble = %q, want %q", data, "007AB  ")
	}
}

func TestAssembler_UnknownCodec(t *testing.T) {
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldNumeric, Length: 4, Encoding: "NOPE", Required: true},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(1, "1")
	if _, err := NewAssembler(NewRegistry()).Assemble(msg); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("expected ErrUnknownCodec, got %v", err)
	}
}

func TestAssembler_HexFieldBytePrefix(t *testing.T) {
	// HEX length prefixes count bytes, not characters.
	schema := &MessageSchema{
		Fields: []FieldSchema{
			{ID: 1, Type: FieldBinary, Length: 8, LengthType: LengthLLVAR, Encoding: CodecHex, Required: true},
		},
	}
	msg := NewMessage(schema)
	msg.SetField(1, "CAFE")

	data, err := NewAssembler(NewRegistry()).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []byte{0x02, 0xCA, 0xFE}
	if !bytes.Equal(data, want) {
		t.Errorf("Assemble = % X, want % X", data, want)
	}
}
