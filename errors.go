package msgframe

import (
	"errors"
	"fmt"
)

// Core error kinds. Both assembler and parser fail fast on the first error in
// a call; there is no partial-result recovery inside one invocation.
var (
	ErrUnknownCodec   = errors.New("unknown codec")
	ErrFieldMissing   = errors.New("required field missing")
	ErrLengthOverflow = errors.New("length indicator exceeds field maximum")
	ErrFormatError    = errors.New("value cannot be rendered by codec")

	ErrInvalidSchema   = errors.New("invalid schema")
	ErrBufferExhausted = errors.New("insufficient data")
)

// FieldError ties an error kind to the field it occurred on.
type FieldError struct {
	Field int
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", fe.Field, fe.Err)
}

// Unwrap exposes the underlying kind to errors.Is.
func (fe *FieldError) Unwrap() error {
	return fe.Err
}

func fieldErr(id int, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		// Already tagged by a nested field; keep the innermost id.
		return err
	}
	return &FieldError{Field: id, Err: err}
}
