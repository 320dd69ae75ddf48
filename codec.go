package msgframe

import (
	"fmt"
	"strings"
	"sync"
)

// Registered names of the built-in codecs.
const (
	CodecASCII  = "ASCII"
	CodecBCD    = "BCD"
	CodecHex    = "HEX"
	CodecBinary = "BINARY"
	CodecEBCDIC = "EBCDIC"
	CodecPacked = "PACKED"
)

// Codec converts between a field value and its byte representation. Codecs
// are stateless singletons shared by every message of every schema; all
// methods must be safe for concurrent use.
type Codec interface {
	// Name is the registry key, conventionally uppercase.
	Name() string

	// Encode renders value into out according to the field's length and
	// padding rules. value is a string for character and numeric codecs and a
	// string or []byte for BINARY.
	Encode(value interface{}, field *FieldSchema, out *Buffer) error

	// Decode consumes one field's bytes from in and returns its value.
	// dataLength is in the codec's length unit (digits, characters or bytes).
	Decode(in *Reader, field *FieldSchema, dataLength int) (interface{}, error)

	// ByteLength converts a length in the codec's unit to on-wire bytes.
	ByteLength(dataLength int) int

	// EncodeLength writes a variable-length prefix holding length, sized for
	// the given digit count.
	EncodeLength(length, digits int, out *Buffer) error

	// DecodeLength reads back a prefix written by EncodeLength.
	DecodeLength(in *Reader, digits int) (int, error)
}

// Registry maps codec names to implementations. It is constructed explicitly
// and injected where needed; lookups are case-insensitive and safe under
// concurrent Register calls.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry returns a registry pre-populated with the six built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec, 8)}
	r.Register(ASCIICodec{})
	r.Register(BCDCodec{})
	r.Register(HexCodec{})
	r.Register(BinaryCodec{})
	r.Register(EBCDICCodec{})
	r.Register(PackedCodec{})
	return r
}

// Register adds or replaces a codec under the uppercase form of its name.
// Registration is rare and administrative; it is visible to concurrent
// readers without further synchronization by callers.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[strings.ToUpper(c.Name())] = c
}

// Get returns the codec registered under name, case-insensitively.
func (r *Registry) Get(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.codecs[strings.ToUpper(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// GetOrDefault returns the codec for name, falling back to fallbackName when
// name is not registered. It fails only if the fallback is missing too.
func (r *Registry) GetOrDefault(name, fallbackName string) (Codec, error) {
	if c, err := r.Get(name); err == nil {
		return c, nil
	}
	return r.Get(fallbackName)
}

// encodeDecimalLength is the default length-prefix encoding: format the
// length as a zero-padded decimal string of the requested digit count, then
// render it through the codec's own Encode with a synthetic fixed field.
func encodeDecimalLength(c Codec, length, digits int, out *Buffer) error {
	if length < 0 || length >= pow10(digits) {
		return fmt.Errorf("%w: length %d does not fit in %d digits", ErrFormatError, length, digits)
	}
	f := &FieldSchema{Type: FieldNumeric, Length: digits, LengthType: LengthFixed, PadChar: '0'}
	return c.Encode(fmt.Sprintf("%0*d", digits, length), f, out)
}

// decodeDecimalLength mirrors encodeDecimalLength.
func decodeDecimalLength(c Codec, in *Reader, digits int) (int, error) {
	f := &FieldSchema{Type: FieldNumeric, Length: digits, LengthType: LengthFixed, PadChar: '0'}
	v, err := c.Decode(in, f, digits)
	if err != nil {
		return 0, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%w: length prefix is not textual", ErrFormatError)
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: bad digit %q in length prefix", ErrFormatError, ch)
		}
		n = n*10 + int(ch-'0')
	}
	return n, nil
}
