package msgframe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// GenericMessage is one message instance: a field-id to value map bound to
// the schema it conforms to. Values are strings for character and numeric
// fields and []byte for binary fields. A message is created empty by a
// caller or returned by Parser.Parse; it is never shared across schemas and
// is not safe for concurrent mutation.
type GenericMessage struct {
	schema  *MessageSchema
	traceID string

	fields map[int]interface{}
	nested map[int]map[int]interface{}

	// raw is the byte sequence the message was parsed from, retained for
	// audit and diagnostics; nil for locally built messages.
	raw []byte
	// trailing holds any surplus bytes left after all schema sections were
	// consumed.
	trailing []byte
}

// NewMessage creates an empty message bound to schema. Each message gets a
// trace id for audit correlation in logs.
func NewMessage(schema *MessageSchema) *GenericMessage {
	return &GenericMessage{
		schema:  schema,
		traceID: uuid.NewString(),
		fields:  make(map[int]interface{}),
		nested:  make(map[int]map[int]interface{}),
	}
}

// Schema returns the schema this message conforms to.
func (m *GenericMessage) Schema() *MessageSchema {
	return m.schema
}

// TraceID returns the message's audit correlation id.
func (m *GenericMessage) TraceID() string {
	return m.traceID
}

// SetField stores a value under id. Last write wins; a nil value clears the
// field.
func (m *GenericMessage) SetField(id int, value interface{}) {
	if value == nil {
		delete(m.fields, id)
		return
	}
	m.fields[id] = value
}

// GetField returns the value stored under id.
func (m *GenericMessage) GetField(id int) (interface{}, bool) {
	v, ok := m.fields[id]
	return v, ok
}

// GetString returns the field value rendered as a string, or "" when absent.
func (m *GenericMessage) GetString(id int) string {
	v, ok := m.fields[id]
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		buf := make([]byte, len(x)*2)
		encodeHexUpper(buf, x)
		return string(buf)
	}
	return fmt.Sprint(v)
}

// HasField reports whether id currently holds a non-nil value. Bitmap
// assembly uses this to decide control bits.
func (m *GenericMessage) HasField(id int) bool {
	_, ok := m.fields[id]
	return ok
}

// SetNestedField stores a COMPOSITE child value under (parent, child).
func (m *GenericMessage) SetNestedField(parent, child int, value interface{}) {
	inner, ok := m.nested[parent]
	if !ok {
		inner = make(map[int]interface{})
		m.nested[parent] = inner
	}
	if value == nil {
		delete(inner, child)
		return
	}
	inner[child] = value
}

// GetNestedField returns a COMPOSITE child value.
func (m *GenericMessage) GetNestedField(parent, child int) (interface{}, bool) {
	inner, ok := m.nested[parent]
	if !ok {
		return nil, false
	}
	v, ok := inner[child]
	return v, ok
}

// AllFields returns a copy of the top-level field map.
func (m *GenericMessage) AllFields() map[int]interface{} {
	out := make(map[int]interface{}, len(m.fields))
	for k, v := range m.fields {
		out[k] = v
	}
	return out
}

// FieldIDs returns the present top-level field ids in ascending order.
func (m *GenericMessage) FieldIDs() []int {
	ids := make([]int, 0, len(m.fields))
	for id := range m.fields {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RawBytes returns the bytes this message was parsed from, or nil.
func (m *GenericMessage) RawBytes() []byte {
	return m.raw
}

// TrailingBytes returns surplus input left over after parsing, or nil.
func (m *GenericMessage) TrailingBytes() []byte {
	return m.trailing
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Fields whose schema
// marks them Sensitive are masked; unknown ids log in the clear since the
// schema carries no sensitivity verdict for them.
func (m *GenericMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("trace_id", m.traceID)
	if m.schema != nil {
		enc.AddString("schema", m.schema.Name)
	}
	for _, id := range m.FieldIDs() {
		key := fmt.Sprintf("f%d", id)
		val := m.GetString(id)
		if m.isSensitive(id) {
			val = maskValue(val)
		}
		enc.AddString(key, val)
	}
	if len(m.trailing) > 0 {
		enc.AddInt("trailing_bytes", len(m.trailing))
	}
	return nil
}

func (m *GenericMessage) isSensitive(id int) bool {
	if m.schema == nil {
		return false
	}
	if f := m.schema.FieldByID(id); f != nil {
		return f.Sensitive
	}
	return false
}

// maskValue hides a sensitive value, keeping the last four characters when
// long enough to stay useful for reconciliation.
func maskValue(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
