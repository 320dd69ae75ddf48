package msgframe

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/viper"
)

// Schema documents are the declarative source format. LoadSchemaFile accepts
// whatever viper can read (JSON, YAML, TOML); ParseSchemaJSON takes raw JSON
// bytes; EncodeBundle/DecodeBundle move the same shape as compact CBOR for
// machine-distributed schema sets.

type schemaDocument struct {
	Name            string           `json:"name" mapstructure:"name" cbor:"1,keyasint"`
	Version         string           `json:"version" mapstructure:"version" cbor:"2,keyasint"`
	DefaultEncoding string           `json:"default_encoding" mapstructure:"default_encoding" cbor:"3,keyasint"`
	Header          *headerDocument  `json:"header,omitempty" mapstructure:"header" cbor:"4,keyasint,omitempty"`
	Fields          []fieldDocument  `json:"fields" mapstructure:"fields" cbor:"5,keyasint"`
	Trailer         *trailerDocument `json:"trailer,omitempty" mapstructure:"trailer" cbor:"6,keyasint,omitempty"`
}

type headerDocument struct {
	LengthPrefix *lengthPrefixDocument `json:"length_prefix,omitempty" mapstructure:"length_prefix" cbor:"1,keyasint,omitempty"`
	Fields       []fieldDocument       `json:"fields,omitempty" mapstructure:"fields" cbor:"2,keyasint,omitempty"`
}

type trailerDocument struct {
	Fields []fieldDocument `json:"fields,omitempty" mapstructure:"fields" cbor:"1,keyasint,omitempty"`
}

type lengthPrefixDocument struct {
	Bytes            int    `json:"bytes" mapstructure:"bytes" cbor:"1,keyasint"`
	Encoding         string `json:"encoding,omitempty" mapstructure:"encoding" cbor:"2,keyasint,omitempty"`
	IncludesOwnBytes bool   `json:"includes_own_bytes,omitempty" mapstructure:"includes_own_bytes" cbor:"3,keyasint,omitempty"`
}

type fieldDocument struct {
	ID             int             `json:"id" mapstructure:"id" cbor:"1,keyasint"`
	Name           string          `json:"name,omitempty" mapstructure:"name" cbor:"2,keyasint,omitempty"`
	Type           string          `json:"type" mapstructure:"type" cbor:"3,keyasint"`
	Length         int             `json:"length" mapstructure:"length" cbor:"4,keyasint"`
	LengthType     string          `json:"length_type,omitempty" mapstructure:"length_type" cbor:"5,keyasint,omitempty"`
	Encoding       string          `json:"encoding,omitempty" mapstructure:"encoding" cbor:"6,keyasint,omitempty"`
	LengthEncoding string          `json:"length_encoding,omitempty" mapstructure:"length_encoding" cbor:"7,keyasint,omitempty"`
	CustomCodec    string          `json:"custom_codec,omitempty" mapstructure:"custom_codec" cbor:"8,keyasint,omitempty"`
	PadChar        string          `json:"pad_char,omitempty" mapstructure:"pad_char" cbor:"9,keyasint,omitempty"`
	PadDir         string          `json:"pad_dir,omitempty" mapstructure:"pad_dir" cbor:"10,keyasint,omitempty"`
	Sensitive      bool            `json:"sensitive,omitempty" mapstructure:"sensitive" cbor:"11,keyasint,omitempty"`
	Required       bool            `json:"required,omitempty" mapstructure:"required" cbor:"12,keyasint,omitempty"`
	Default        string          `json:"default,omitempty" mapstructure:"default" cbor:"13,keyasint,omitempty"`
	Children       []fieldDocument `json:"children,omitempty" mapstructure:"children" cbor:"14,keyasint,omitempty"`
	Controls       []int           `json:"controls,omitempty" mapstructure:"controls" cbor:"15,keyasint,omitempty"`
}

// LoadSchemaFile reads a schema document from disk. The format follows the
// file extension (json, yaml, yml, toml).
func LoadSchemaFile(path string) (*MessageSchema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	var doc schemaDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", path, err)
	}
	return doc.build()
}

// ParseSchemaJSON builds a schema from a JSON document held in memory.
func ParseSchemaJSON(data []byte) (*MessageSchema, error) {
	var doc schemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema json: %w", err)
	}
	return doc.build()
}

// EncodeBundle renders a schema as a compact CBOR document.
func EncodeBundle(s *MessageSchema) ([]byte, error) {
	doc := documentFromSchema(s)
	data, err := cbor.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema bundle: %w", err)
	}
	return data, nil
}

// DecodeBundle rebuilds a schema from EncodeBundle output.
func DecodeBundle(data []byte) (*MessageSchema, error) {
	var doc schemaDocument
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema bundle: %w", err)
	}
	return doc.build()
}

func (doc *schemaDocument) build() (*MessageSchema, error) {
	s := &MessageSchema{
		Name:            doc.Name,
		Version:         doc.Version,
		DefaultEncoding: doc.DefaultEncoding,
	}
	var err error
	if doc.Header != nil {
		h := &HeaderSchema{}
		if doc.Header.LengthPrefix != nil {
			h.LengthPrefix = &LengthPrefixSchema{
				Bytes:            doc.Header.LengthPrefix.Bytes,
				Encoding:         doc.Header.LengthPrefix.Encoding,
				IncludesOwnBytes: doc.Header.LengthPrefix.IncludesOwnBytes,
			}
		}
		if h.Fields, err = buildFields(doc.Header.Fields); err != nil {
			return nil, err
		}
		s.Header = h
	}
	if s.Fields, err = buildFields(doc.Fields); err != nil {
		return nil, err
	}
	if doc.Trailer != nil {
		t := &TrailerSchema{}
		if t.Fields, err = buildFields(doc.Trailer.Fields); err != nil {
			return nil, err
		}
		s.Trailer = t
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func buildFields(docs []fieldDocument) ([]FieldSchema, error) {
	fields := make([]FieldSchema, 0, len(docs))
	for _, d := range docs {
		f, err := d.build()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (d *fieldDocument) build() (FieldSchema, error) {
	f := FieldSchema{
		ID:             d.ID,
		Name:           d.Name,
		Length:         d.Length,
		Encoding:       d.Encoding,
		LengthEncoding: d.LengthEncoding,
		CustomCodec:    d.CustomCodec,
		Sensitive:      d.Sensitive,
		Required:       d.Required,
		Default:        d.Default,
		Controls:       d.Controls,
	}
	var err error
	if f.Type, err = ParseFieldDataType(d.Type); err != nil {
		return f, fmt.Errorf("field %d: %w", d.ID, err)
	}
	if f.LengthType, err = ParseLengthType(d.LengthType); err != nil {
		return f, fmt.Errorf("field %d: %w", d.ID, err)
	}
	if f.PadDir, err = ParsePadDirection(d.PadDir); err != nil {
		return f, fmt.Errorf("field %d: %w", d.ID, err)
	}
	if len(d.PadChar) > 1 {
		return f, fmt.Errorf("field %d: pad_char must be a single character", d.ID)
	}
	if d.PadChar != "" {
		f.PadChar = d.PadChar[0]
	}
	if f.Children, err = buildFields(d.Children); err != nil {
		return f, err
	}
	return f, nil
}

func documentFromSchema(s *MessageSchema) *schemaDocument {
	doc := &schemaDocument{
		Name:            s.Name,
		Version:         s.Version,
		DefaultEncoding: s.DefaultEncoding,
		Fields:          documentsFromFields(s.Fields),
	}
	if s.Header != nil {
		h := &headerDocument{Fields: documentsFromFields(s.Header.Fields)}
		if s.Header.LengthPrefix != nil {
			h.LengthPrefix = &lengthPrefixDocument{
				Bytes:            s.Header.LengthPrefix.Bytes,
				Encoding:         s.Header.LengthPrefix.Encoding,
				IncludesOwnBytes: s.Header.LengthPrefix.IncludesOwnBytes,
			}
		}
		doc.Header = h
	}
	if s.Trailer != nil {
		doc.Trailer = &trailerDocument{Fields: documentsFromFields(s.Trailer.Fields)}
	}
	return doc
}

func documentsFromFields(fields []FieldSchema) []fieldDocument {
	docs := make([]fieldDocument, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		d := fieldDocument{
			ID:             f.ID,
			Name:           f.Name,
			Type:           f.Type.String(),
			Length:         f.Length,
			LengthType:     f.LengthType.String(),
			Encoding:       f.Encoding,
			LengthEncoding: f.LengthEncoding,
			CustomCodec:    f.CustomCodec,
			PadDir:         f.PadDir.String(),
			Sensitive:      f.Sensitive,
			Required:       f.Required,
			Default:        f.Default,
			Controls:       f.Controls,
			Children:       documentsFromFields(f.Children),
		}
		if f.PadChar != 0 {
			d.PadChar = string(f.PadChar)
		}
		docs = append(docs, d)
	}
	return docs
}
