package msgframe

import (
	"fmt"
	"strings"
)

// FieldSchema describes the wire format of one field. IDs are unique within
// their enclosing field list, not globally; a COMPOSITE child may reuse an id
// from the body.
//
// Length semantics depend on the encoding: digit count for numeric codecs,
// character count for charset codecs, byte count for HEX and BINARY, bit
// count for a BITMAP field under binary-style encoding.
type FieldSchema struct {
	ID         int
	Name       string
	Type       FieldDataType
	Length     int
	LengthType LengthType

	// Encoding names the codec for the payload; empty means the enclosing
	// schema's default. LengthEncoding names the codec for the variable-length
	// prefix; empty means BCD.
	Encoding       string
	LengthEncoding string

	// CustomCodec overrides Encoding when set. It is resolved through the same
	// registry; callers register their codec before use.
	CustomCodec string

	PadChar byte
	PadDir  PadDirection

	Sensitive bool
	Required  bool

	// Default is substituted when the field holds no value at assembly time.
	// The empty string means "no default"; a field cannot default to an
	// empty value. Give the field an explicit empty value instead.
	Default string

	// Children is set only for COMPOSITE fields.
	Children []FieldSchema

	// Controls is set only for BITMAP fields: the field ids whose presence
	// each bit encodes, bit 0 = MSB of byte 0.
	Controls []int
}

// IsVariable reports whether the field carries a length prefix on the wire.
func (f *FieldSchema) IsVariable() bool {
	return f.LengthType != LengthFixed
}

// codecName returns the payload codec name for this field given the schema
// default, honoring the CustomCodec escape hatch.
func (f *FieldSchema) codecName(schemaDefault string) string {
	if f.CustomCodec != "" {
		return f.CustomCodec
	}
	if f.Encoding != "" {
		return f.Encoding
	}
	return schemaDefault
}

// lengthCodecName returns the codec name for the field's length prefix.
func (f *FieldSchema) lengthCodecName() string {
	if f.LengthEncoding != "" {
		return f.LengthEncoding
	}
	return CodecBCD
}

// padChar returns the configured padding character, defaulting to '0' for
// numeric fields and space otherwise.
func (f *FieldSchema) padChar() byte {
	if f.PadChar != 0 {
		return f.PadChar
	}
	if f.Type == FieldNumeric {
		return '0'
	}
	return ' '
}

// LengthPrefixSchema describes the optional message length prefix that leads
// the header section.
type LengthPrefixSchema struct {
	// Bytes is the fixed on-wire size of the prefix.
	Bytes int
	// Encoding names the codec used to render the length: BCD, BINARY or
	// ASCII. Empty means BCD.
	Encoding string
	// IncludesOwnBytes controls whether the encoded count covers the prefix
	// itself in addition to the rest of the message.
	IncludesOwnBytes bool
}

func (p *LengthPrefixSchema) codecName() string {
	if p.Encoding != "" {
		return p.Encoding
	}
	return CodecBCD
}

// HeaderSchema is the optional leading section of a message.
type HeaderSchema struct {
	Fields       []FieldSchema
	LengthPrefix *LengthPrefixSchema
}

// TrailerSchema is the optional closing section of a message.
type TrailerSchema struct {
	Fields []FieldSchema
}

// MessageSchema is a named, versioned protocol definition. Build it once
// (programmatically or through the loader) and treat it as immutable for the
// lifetime of every message that references it.
type MessageSchema struct {
	Name    string
	Version string

	// DefaultEncoding is the codec applied to fields that don't name their
	// own. Empty means ASCII.
	DefaultEncoding string

	Header  *HeaderSchema
	Fields  []FieldSchema
	Trailer *TrailerSchema
}

// defaultEncoding resolves the schema-wide fallback codec name.
func (s *MessageSchema) defaultEncoding() string {
	if s.DefaultEncoding != "" {
		return s.DefaultEncoding
	}
	return CodecASCII
}

// FieldByID returns the body field with the given id, or nil.
func (s *MessageSchema) FieldByID(id int) *FieldSchema {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}

// lookupField searches all three sections for a field id.
func (s *MessageSchema) lookupField(id int) *FieldSchema {
	if s.Header != nil {
		for i := range s.Header.Fields {
			if s.Header.Fields[i].ID == id {
				return &s.Header.Fields[i]
			}
		}
	}
	if f := s.FieldByID(id); f != nil {
		return f
	}
	if s.Trailer != nil {
		for i := range s.Trailer.Fields {
			if s.Trailer.Fields[i].ID == id {
				return &s.Trailer.Fields[i]
			}
		}
	}
	return nil
}

// Validate checks the structural invariants of the schema: ids unique within
// each field list, COMPOSITE fields with at least one child, BITMAP controls
// that fit the field's bit capacity, and positive lengths where required.
// Content rules of field values are out of scope; Validate looks at the
// schema only.
func (s *MessageSchema) Validate() error {
	if s.Header != nil {
		if p := s.Header.LengthPrefix; p != nil && p.Bytes <= 0 {
			return fmt.Errorf("%w: header length prefix must be at least one byte", ErrInvalidSchema)
		}
		if err := s.validateFieldList("header", s.Header.Fields); err != nil {
			return err
		}
	}
	if err := s.validateFieldList("body", s.Fields); err != nil {
		return err
	}
	if s.Trailer != nil {
		if err := s.validateFieldList("trailer", s.Trailer.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (s *MessageSchema) validateFieldList(section string, fields []FieldSchema) error {
	seen := make(map[int]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		if seen[f.ID] {
			return fmt.Errorf("%w: duplicate field id %d in %s", ErrInvalidSchema, f.ID, section)
		}
		seen[f.ID] = true

		switch f.Type {
		case FieldComposite:
			if len(f.Children) == 0 {
				return fmt.Errorf("%w: composite field %d has no children", ErrInvalidSchema, f.ID)
			}
			if err := s.validateFieldList(fmt.Sprintf("%s field %d", section, f.ID), f.Children); err != nil {
				return err
			}
		case FieldBitmap:
			capacity := bitmapCapacityBits(f, f.codecName(s.defaultEncoding()))
			if len(f.Controls) > capacity {
				return fmt.Errorf("%w: bitmap field %d controls %d fields but holds %d bits",
					ErrInvalidSchema, f.ID, len(f.Controls), capacity)
			}
		default:
			if len(f.Children) > 0 {
				return fmt.Errorf("%w: field %d carries children but is not COMPOSITE", ErrInvalidSchema, f.ID)
			}
			if len(f.Controls) > 0 {
				return fmt.Errorf("%w: field %d carries controls but is not BITMAP", ErrInvalidSchema, f.ID)
			}
		}

		if f.Type != FieldComposite && f.Length <= 0 {
			return fmt.Errorf("%w: field %d has no length", ErrInvalidSchema, f.ID)
		}
	}
	return nil
}

// isBinaryStyle reports whether a codec name denotes raw-byte output, which
// switches a BITMAP field's Length from wire bytes to bits.
func isBinaryStyle(codecName string) bool {
	return strings.EqualFold(codecName, CodecBinary)
}
