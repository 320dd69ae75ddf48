package msgframe

import (
	"fmt"
	"sync"
)

// builderPool reuses Builder shells across messages.
var builderPool = sync.Pool{
	New: func() interface{} {
		return &Builder{
			errors: make([]error, 0, 4),
		}
	},
}

// Builder accumulates field values fluently and reports all recording errors
// at Build time.
type Builder struct {
	msg    *GenericMessage
	errors []error
}

// NewBuilder starts a builder for one message of the given schema.
func NewBuilder(schema *MessageSchema) *Builder {
	b := builderPool.Get().(*Builder)
	b.msg = NewMessage(schema)
	b.errors = b.errors[:0]
	return b
}

// Release returns the builder to the pool.
func (b *Builder) Release() {
	b.msg = nil
	b.errors = b.errors[:0]
	builderPool.Put(b)
}

// Set records a top-level field value. Ids unknown to the schema are
// reported at Build time.
func (b *Builder) Set(id int, value interface{}) *Builder {
	if b.msg.Schema() != nil && b.msg.Schema().lookupField(id) == nil {
		b.errors = append(b.errors, fmt.Errorf("%w: field %d not in schema %q",
			ErrInvalidSchema, id, b.msg.Schema().Name))
		return b
	}
	b.msg.SetField(id, value)
	return b
}

// SetNested records a COMPOSITE child value.
func (b *Builder) SetNested(parent, child int, value interface{}) *Builder {
	f := (*FieldSchema)(nil)
	if s := b.msg.Schema(); s != nil {
		f = s.lookupField(parent)
	}
	if f == nil || f.Type != FieldComposite {
		b.errors = append(b.errors, fmt.Errorf("%w: field %d is not a composite",
			ErrInvalidSchema, parent))
		return b
	}
	b.msg.SetNestedField(parent, child, value)
	return b
}

// Build returns the message, or the first recording error.
func (b *Builder) Build() (*GenericMessage, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	msg := b.msg
	b.msg = nil // transfer ownership
	return msg, nil
}

// MustBuild is Build for wiring code that treats errors as programmer
// mistakes.
func (b *Builder) MustBuild() *GenericMessage {
	msg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return msg
}
