package msgframe

import (
	"fmt"

	"go.uber.org/zap"
)

// Assembler turns a GenericMessage into wire bytes according to its schema.
// An Assembler holds no state across calls; one instance serves any number
// of concurrent Assemble calls.
type Assembler struct {
	registry *Registry
	log      *zap.Logger
}

// NewAssembler creates an assembler over the given codec registry.
func NewAssembler(registry *Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		registry: registry,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble emits the message in wire order: optional header length prefix,
// header fields, body fields, trailer fields, each in schema-declared order.
// The input message is not mutated. Assembly fails fast on the first error.
func (a *Assembler) Assemble(msg *GenericMessage) ([]byte, error) {
	schema := msg.Schema()
	if schema == nil {
		return nil, fmt.Errorf("%w: message has no schema", ErrInvalidSchema)
	}

	out := getBuffer()
	defer putBuffer(out)

	var prefixPatch Patch
	var prefix *LengthPrefixSchema
	if schema.Header != nil && schema.Header.LengthPrefix != nil {
		prefix = schema.Header.LengthPrefix
		prefixPatch = out.Reserve(prefix.Bytes)
	}

	if schema.Header != nil {
		if err := a.emitSection(schema, schema.Header.Fields, msg, out); err != nil {
			return nil, err
		}
	}
	if err := a.emitSection(schema, schema.Fields, msg, out); err != nil {
		return nil, err
	}
	if schema.Trailer != nil {
		if err := a.emitSection(schema, schema.Trailer.Fields, msg, out); err != nil {
			return nil, err
		}
	}

	if prefix != nil {
		total := out.Len()
		if !prefix.IncludesOwnBytes {
			total -= prefix.Bytes
		}
		c, err := a.registry.Get(prefix.codecName())
		if err != nil {
			return nil, err
		}
		patch := getBuffer()
		err = encodeHeaderLength(c, total, prefix.Bytes, patch)
		if err == nil {
			err = out.Fill(prefixPatch, patch.Bytes())
		}
		putBuffer(patch)
		if err != nil {
			return nil, err
		}
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())
	a.log.Debug("assembled message",
		zap.String("schema", schema.Name),
		zap.String("trace_id", msg.TraceID()),
		zap.Int("bytes", len(result)))
	return result, nil
}

func (a *Assembler) emitSection(schema *MessageSchema, fields []FieldSchema, msg *GenericMessage, out *Buffer) error {
	for i := range fields {
		if err := a.emitField(schema, &fields[i], msg, out); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) emitField(schema *MessageSchema, f *FieldSchema, msg *GenericMessage, out *Buffer) error {
	codecName := f.codecName(schema.defaultEncoding())

	switch f.Type {
	case FieldComposite:
		// Children carry no length wrapper of their own; each resolves
		// against the nested value map, falling back to its default.
		for i := range f.Children {
			child := &f.Children[i]
			value, ok := msg.GetNestedField(f.ID, child.ID)
			if err := a.emitScalar(schema, child, value, ok, out); err != nil {
				return fieldErr(f.ID, err)
			}
		}
		return nil

	case FieldBitmap:
		// A bitmap is always emitted; its bits reflect which controlled
		// fields currently hold values, wherever those fields sit in the
		// schema.
		raw := expandControls(f, codecName, msg.HasField)
		writeBitmap(f, codecName, raw, out)
		return nil

	default:
		value, ok := msg.GetField(f.ID)
		return a.emitScalar(schema, f, value, ok, out)
	}
}

// emitScalar writes one non-composite, non-bitmap field: length prefix first
// when variable, then the payload through the field's codec.
func (a *Assembler) emitScalar(schema *MessageSchema, f *FieldSchema, value interface{}, ok bool, out *Buffer) error {
	if !ok && f.Default != "" {
		value, ok = f.Default, true
	}
	if !ok {
		if f.Required {
			return fieldErr(f.ID, ErrFieldMissing)
		}
		return nil
	}

	c, err := a.registry.Get(f.codecName(schema.defaultEncoding()))
	if err != nil {
		return fieldErr(f.ID, err)
	}

	if f.IsVariable() {
		n, err := unitLength(c, value)
		if err != nil {
			return fieldErr(f.ID, err)
		}
		lc, err := a.registry.Get(f.lengthCodecName())
		if err != nil {
			return fieldErr(f.ID, err)
		}
		if err := lc.EncodeLength(n, f.LengthType.PrefixDigits(), out); err != nil {
			return fieldErr(f.ID, err)
		}
	}
	if err := c.Encode(value, f, out); err != nil {
		return fieldErr(f.ID, err)
	}
	return nil
}

// valueSizer is implemented by codecs whose length unit is bytes rather than
// characters.
type valueSizer interface {
	ValueLength(value interface{}) (int, error)
}

// unitLength measures a value in the codec's length unit for variable-length
// prefixes.
func unitLength(c Codec, value interface{}) (int, error) {
	if sizer, ok := c.(valueSizer); ok {
		return sizer.ValueLength(value)
	}
	s, err := textValue(value)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

// encodeHeaderLength renders a message length into exactly size bytes using
// the prefix codec: big-endian for BINARY, packed decimal digits for BCD,
// one decimal character per byte otherwise.
func encodeHeaderLength(c Codec, n, size int, out *Buffer) error {
	f := &FieldSchema{Type: FieldNumeric, LengthType: LengthFixed, PadChar: '0'}
	switch c.Name() {
	case CodecBinary:
		if n < 0 || size >= 8 || n >= 1<<(8*size) {
			return fmt.Errorf("%w: message length %d does not fit in %d bytes", ErrFormatError, n, size)
		}
		f.Type = FieldBinary
		f.Length = size
		return c.Encode(fmt.Sprintf("%0*X", size*2, n), f, out)
	case CodecBCD:
		digits := size * 2
		if n < 0 || n >= pow10(digits) {
			return fmt.Errorf("%w: message length %d does not fit in %d digits", ErrFormatError, n, digits)
		}
		f.Length = digits
		return c.Encode(fmt.Sprintf("%0*d", digits, n), f, out)
	default:
		if n < 0 || n >= pow10(size) {
			return fmt.Errorf("%w: message length %d does not fit in %d characters", ErrFormatError, n, size)
		}
		f.Length = size
		return c.Encode(fmt.Sprintf("%0*d", size, n), f, out)
	}
}
