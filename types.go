package msgframe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldDataType classifies the content of a field. COMPOSITE and BITMAP carry
// type-specific payload on FieldSchema (Children and Controls respectively);
// MessageSchema.Validate enforces that pairing.
type FieldDataType int

const (
	FieldNumeric FieldDataType = iota
	FieldAlpha
	FieldAlphanumeric
	FieldBinary
	FieldTrack2
	FieldComposite
	FieldBitmap
)

// String returns the canonical schema-document spelling of the type.
func (t FieldDataType) String() string {
	switch t {
	case FieldNumeric:
		return "NUMERIC"
	case FieldAlpha:
		return "ALPHA"
	case FieldAlphanumeric:
		return "ALPHANUMERIC"
	case FieldBinary:
		return "BINARY"
	case FieldTrack2:
		return "TRACK2"
	case FieldComposite:
		return "COMPOSITE"
	case FieldBitmap:
		return "BITMAP"
	}
	return fmt.Sprintf("FieldDataType(%d)", int(t))
}

// ParseFieldDataType maps a schema-document spelling to a FieldDataType.
// Matching is case-insensitive.
func ParseFieldDataType(s string) (FieldDataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NUMERIC", "N":
		return FieldNumeric, nil
	case "ALPHA", "A":
		return FieldAlpha, nil
	case "ALPHANUMERIC", "AN", "ANS":
		return FieldAlphanumeric, nil
	case "BINARY", "B":
		return FieldBinary, nil
	case "TRACK2", "Z":
		return FieldTrack2, nil
	case "COMPOSITE":
		return FieldComposite, nil
	case "BITMAP":
		return FieldBitmap, nil
	}
	return 0, fmt.Errorf("unknown field data type %q", s)
}

// UnmarshalJSON accepts either the numeric enum value or its string spelling.
func (t *FieldDataType) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*t = FieldDataType(v)
		return nil
	case string:
		parsed, err := ParseFieldDataType(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	return fmt.Errorf("invalid field data type: %s", data)
}

// LengthType defines how the length of a field is determined on the wire.
type LengthType int

const (
	LengthFixed LengthType = iota
	LengthLLVAR
	LengthLLLVAR
	LengthLLLLVAR
)

// PrefixDigits returns the digit count of the length indicator that precedes
// a variable-length field: 0 for FIXED, 2/3/4 for LLVAR/LLLVAR/LLLLVAR.
func (lt LengthType) PrefixDigits() int {
	switch lt {
	case LengthLLVAR:
		return 2
	case LengthLLLVAR:
		return 3
	case LengthLLLLVAR:
		return 4
	}
	return 0
}

// String returns the canonical schema-document spelling of the length type.
func (lt LengthType) String() string {
	switch lt {
	case LengthFixed:
		return "FIXED"
	case LengthLLVAR:
		return "LLVAR"
	case LengthLLLVAR:
		return "LLLVAR"
	case LengthLLLLVAR:
		return "LLLLVAR"
	}
	return fmt.Sprintf("LengthType(%d)", int(lt))
}

// ParseLengthType maps a schema-document spelling to a LengthType.
func ParseLengthType(s string) (LengthType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FIXED":
		return LengthFixed, nil
	case "LLVAR":
		return LengthLLVAR, nil
	case "LLLVAR":
		return LengthLLLVAR, nil
	case "LLLLVAR":
		return LengthLLLLVAR, nil
	}
	return 0, fmt.Errorf("unknown length type %q", s)
}

// UnmarshalJSON accepts either the numeric enum value or its string spelling.
func (lt *LengthType) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*lt = LengthType(v)
		return nil
	case string:
		parsed, err := ParseLengthType(v)
		if err != nil {
			return err
		}
		*lt = parsed
		return nil
	}
	return fmt.Errorf("invalid length type: %s", data)
}

// PadDirection selects which side of a value receives padding characters when
// a fixed-length field is shorter than its declared length.
type PadDirection int

const (
	PadLeft PadDirection = iota
	PadRight
)

// String returns the canonical schema-document spelling of the direction.
func (d PadDirection) String() string {
	if d == PadRight {
		return "RIGHT"
	}
	return "LEFT"
}

// ParsePadDirection maps a schema-document spelling to a PadDirection.
func ParsePadDirection(s string) (PadDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LEFT":
		return PadLeft, nil
	case "RIGHT":
		return PadRight, nil
	}
	return 0, fmt.Errorf("unknown pad direction %q", s)
}
