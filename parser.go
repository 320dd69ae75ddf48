package msgframe

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Parser turns wire bytes back into a GenericMessage according to a schema.
// A Parser holds no state across calls; one instance serves any number of
// concurrent Parse calls.
type Parser struct {
	registry *Registry
	log      *zap.Logger
}

// NewParser creates a parser over the given codec registry.
func NewParser(registry *Registry, opts ...ParserOption) *Parser {
	p := &Parser{
		registry: registry,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse walks the schema's header, body and trailer sections over data.
//
// Two deliberate asymmetries with the assembler are preserved from the
// legacy behavior: a bitmap field's raw value is stored under its own id
// without marking its controlled fields present, and a header length prefix
// is decoded and discarded rather than bound-checking the remaining input.
// When the buffer runs out before an optional field, the remainder of the
// current section is silently skipped; surplus bytes after all sections are
// attached to the message as trailing data.
func (p *Parser) Parse(data []byte, schema *MessageSchema) (*GenericMessage, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	msg := NewMessage(schema)
	msg.raw = data
	in := NewReader(data)

	if schema.Header != nil && schema.Header.LengthPrefix != nil {
		prefix := schema.Header.LengthPrefix
		raw, err := in.Take(prefix.Bytes)
		if err != nil {
			return nil, fmt.Errorf("header length prefix: %w", err)
		}
		p.log.Debug("discarded header length prefix",
			zap.String("schema", schema.Name),
			zap.Binary("prefix", raw))
	}

	if schema.Header != nil {
		if err := p.parseSection(schema, schema.Header.Fields, msg, in); err != nil {
			return nil, err
		}
	}
	if err := p.parseSection(schema, schema.Fields, msg, in); err != nil {
		return nil, err
	}
	if schema.Trailer != nil {
		if err := p.parseSection(schema, schema.Trailer.Fields, msg, in); err != nil {
			return nil, err
		}
	}

	if rest := in.Rest(); len(rest) > 0 {
		msg.trailing = rest
	}
	p.log.Debug("parsed message",
		zap.String("schema", schema.Name),
		zap.String("trace_id", msg.TraceID()),
		zap.Int("fields", len(msg.fields)),
		zap.Int("trailing_bytes", len(msg.trailing)))
	return msg, nil
}

func (p *Parser) parseSection(schema *MessageSchema, fields []FieldSchema, msg *GenericMessage, in *Reader) error {
	for i := range fields {
		stop, err := p.parseField(schema, &fields[i], msg, in)
		if err != nil {
			return err
		}
		if stop {
			// Buffer exhausted before an optional field: skip the rest of
			// this section without error.
			return nil
		}
	}
	return nil
}

// parseField consumes one field. The returned bool asks the caller to stop
// the current section (optional-field truncation).
func (p *Parser) parseField(schema *MessageSchema, f *FieldSchema, msg *GenericMessage, in *Reader) (bool, error) {
	codecName := f.codecName(schema.defaultEncoding())

	switch f.Type {
	case FieldComposite:
		return p.parseComposite(schema, f, msg, in)

	case FieldBitmap:
		need := bitmapWireBytes(f, codecName)
		if in.Remaining() < need {
			if f.Required {
				return false, fieldErr(f.ID, ErrFieldMissing)
			}
			return true, nil
		}
		v, err := readBitmap(f, codecName, in)
		if err != nil {
			return false, fieldErr(f.ID, err)
		}
		msg.SetField(f.ID, v)
		return false, nil

	default:
		v, stop, err := p.parseScalar(schema, f, in)
		if err != nil || stop {
			return stop, err
		}
		msg.SetField(f.ID, v)
		return false, nil
	}
}

// parseScalar reads one non-composite, non-bitmap field value.
func (p *Parser) parseScalar(schema *MessageSchema, f *FieldSchema, in *Reader) (interface{}, bool, error) {
	c, err := p.registry.Get(f.codecName(schema.defaultEncoding()))
	if err != nil {
		return nil, false, fieldErr(f.ID, err)
	}

	dataLength := f.Length
	if f.IsVariable() {
		lc, err := p.registry.Get(f.lengthCodecName())
		if err != nil {
			return nil, false, fieldErr(f.ID, err)
		}
		n, err := lc.DecodeLength(in, f.LengthType.PrefixDigits())
		if errors.Is(err, ErrBufferExhausted) {
			if f.Required {
				return nil, false, fieldErr(f.ID, ErrFieldMissing)
			}
			return nil, true, nil
		}
		if err != nil {
			return nil, false, fieldErr(f.ID, err)
		}
		if n > f.Length {
			return nil, false, fieldErr(f.ID,
				fmt.Errorf("%w: indicator %d, maximum %d", ErrLengthOverflow, n, f.Length))
		}
		dataLength = n
	}

	if in.Remaining() < c.ByteLength(dataLength) {
		if f.Required {
			return nil, false, fieldErr(f.ID, ErrFieldMissing)
		}
		return nil, true, nil
	}

	v, err := c.Decode(in, f, dataLength)
	if err != nil {
		return nil, false, fieldErr(f.ID, err)
	}
	return v, false, nil
}

// parseComposite reads each child into the nested map and also sets the
// flattened concatenation of child values on the parent id. An optional child
// hitting the end of the buffer stops the enclosing section, the same as a
// truncated top-level field.
func (p *Parser) parseComposite(schema *MessageSchema, f *FieldSchema, msg *GenericMessage, in *Reader) (bool, error) {
	var flat strings.Builder
	stopped := false
	for i := range f.Children {
		child := &f.Children[i]
		v, stop, err := p.parseScalar(schema, child, in)
		if err != nil {
			return false, fieldErr(f.ID, err)
		}
		if stop {
			stopped = true
			break
		}
		msg.SetNestedField(f.ID, child.ID, v)
		switch x := v.(type) {
		case string:
			flat.WriteString(x)
		case []byte:
			buf := make([]byte, len(x)*2)
			encodeHexUpper(buf, x)
			flat.Write(buf)
		default:
			fmt.Fprint(&flat, x)
		}
	}
	msg.SetField(f.ID, flat.String())
	return stopped, nil
}
