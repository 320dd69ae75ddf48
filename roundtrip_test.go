package msgframe

import (
	"bytes"
	"testing"
)

func TestStandardInterchangeSchema_Valid(t *testing.T) {
	if err := StandardInterchangeSchema().Validate(); err != nil {
		t.Fatalf("bundled schema invalid: %v", err)
	}
}

// The parser consumes fields in schema order without consulting the bitmap,
// so a message exercises the full round trip when every schema field holds a
// value.
func TestStandardInterchangeSchema_RoundTrip(t *testing.T) {
	schema := StandardInterchangeSchema()
	registry := NewRegistry()

	msg := NewMessage(schema)
	msg.SetField(0, "0200")
	msg.SetField(2, "4111111111111111")
	msg.SetField(3, "000000")
	msg.SetField(4, "000000012345")
	msg.SetField(7, "0829153000")
	msg.SetField(11, "123456")
	msg.SetField(12, "153000")
	msg.SetField(13, "0829")
	msg.SetField(14, "2512")
	msg.SetField(22, "021")
	msg.SetField(25, "00")
	msg.SetField(28, "00000150")
	msg.SetField(32, "12345678901")
	msg.SetField(35, "4111111111111111=2512101")
	msg.SetField(37, "REF123456789")
	msg.SetField(38, "APPR01")
	msg.SetField(39, "00")
	msg.SetField(41, "TERM0001")
	msg.SetField(42, "MERCHANT0000001")
	msg.SetField(43, "ACME CORNER STORE 123 MAIN STREET US 840")
	msg.SetField(44, "NOTED")
	msg.SetNestedField(48, 1, "001")
	msg.SetNestedField(48, 2, "ACMECORP  ")
	msg.SetField(48, "present") // drives the bitmap bit; the wire value comes from the children
	msg.SetField(49, "840")
	msg.SetField(52, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88})
	msg.SetField(55, []byte{0x9F, 0x02, 0x06, 0x00, 0x00, 0x00, 0x01, 0x23, 0x45})
	msg.SetField(62, "SETTLEMENT BATCH 0001")
	msg.SetField(64, "A1B2C3D4E5F60718")

	data, err := NewAssembler(registry).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	parsed, err := NewParser(registry).Parse(data, schema)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	checks := map[int]string{
		0:  "0200",
		2:  "4111111111111111",
		3:  "000000",
		4:  "000000012345",
		7:  "0829153000",
		11: "123456",
		12: "153000",
		13: "0829",
		14: "2512",
		22: "021",
		25: "00",
		28: "00000150",
		32: "12345678901",
		35: "4111111111111111=2512101",
		37: "REF123456789",
		38: "APPR01",
		39: "00",
		41: "TERM0001",
		42: "MERCHANT0000001",
		43: "ACME CORNER STORE 123 MAIN STREET US 840",
		44: "NOTED",
		49: "840",
		62: "SETTLEMENT BATCH 0001",
		64: "A1B2C3D4E5F60718",
	}
	for id, want := range checks {
		if got := parsed.GetString(id); got != want {
			t.Errorf("field %d = %q, want %q", id, got, want)
		}
	}

	if v, ok := parsed.GetNestedField(48, 1); !ok || v != "001" {
		t.Errorf("nested (48,1) = %v", v)
	}
	if v, ok := parsed.GetNestedField(48, 2); !ok || v != "ACMECORP  " {
		t.Errorf("nested (48,2) = %v", v)
	}

	pin, _ := parsed.GetField(52)
	if b, ok := pin.([]byte); !ok || !bytes.Equal(b, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}) {
		t.Errorf("field 52 = %v", pin)
	}
	icc, _ := parsed.GetField(55)
	if b, ok := icc.([]byte); !ok || !bytes.Equal(b, []byte{0x9F, 0x02, 0x06, 0x00, 0x00, 0x00, 0x01, 0x23, 0x45}) {
		t.Errorf("field 55 = %v", icc)
	}

	// The bitmap re-parses as its raw byte form rather than re-expanding.
	bitmap, ok := parsed.GetField(1)
	if !ok {
		t.Fatal("bitmap absent after parse")
	}
	if b, ok := bitmap.([]byte); !ok || len(b) != 8 {
		t.Errorf("bitmap = %v, want 8 raw bytes", bitmap)
	}

	if len(parsed.TrailingBytes()) != 0 {
		t.Errorf("unexpected trailing bytes: % X", parsed.TrailingBytes())
	}
}

func TestRoundTrip_EBCDICSchema(t *testing.T) {
	schema := &MessageSchema{
		Name:            "host-legacy",
		DefaultEncoding: CodecEBCDIC,
		Fields: []FieldSchema{
			{ID: 1, Type: FieldNumeric, Length: 4, Required: true},
			{ID: 2, Type: FieldAlphanumeric, Length: 8, LengthType: LengthLLVAR, Required: true},
		},
	}
	registry := NewRegistry()

	msg := NewMessage(schema)
	msg.SetField(1, "0810")
	msg.SetField(2, "OK")

	data, err := NewAssembler(registry).Assemble(msg)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if bytes.Contains(data, []byte("0810")) {
		t.Fatal("wire bytes should be EBCDIC, not ASCII")
	}

	parsed, err := NewParser(registry).Parse(data, schema)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := parsed.GetString(1); got != "0810" {
		t.Errorf("field 1 = %q", got)
	}
	if got := parsed.GetString(2); got != "OK" {
		t.Errorf("field 2 = %q", got)
	}
}
