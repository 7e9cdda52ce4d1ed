package protocol

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a decode failure
type ErrorKind int

const (
	// ErrKindFormat indicates a constant field mismatch or a field that is not
	// valid in its encoding (e.g. non-hex ASCII in the address)
	ErrKindFormat ErrorKind = iota
	// ErrKindLength indicates the buffer is shorter than a fixed or declared region
	ErrKindLength
	// ErrKindEnum indicates an enumerated field carries an unknown discriminant
	ErrKindEnum
	// ErrKindIntegrity indicates the computed checksum does not match the frame
	ErrKindIntegrity
)

// Sentinel errors for errors.Is matching. Every *DecodeError unwraps to the
// sentinel of its kind.
var (
	ErrFormat    = errors.New("format error")
	ErrLength    = errors.New("length error")
	ErrEnum      = errors.New("enum error")
	ErrIntegrity = errors.New("integrity error")
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindFormat:
		return "Format Error"
	case ErrKindLength:
		return "Length Error"
	case ErrKindEnum:
		return "Enum Error"
	case ErrKindIntegrity:
		return "Integrity Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrKindFormat:
		return ErrFormat
	case ErrKindLength:
		return ErrLength
	case ErrKindEnum:
		return ErrEnum
	case ErrKindIntegrity:
		return ErrIntegrity
	default:
		return nil
	}
}

// DecodeError describes the first violation found while decoding a buffer.
//
// Value and Expected depend on the kind:
//   - Format: the value read and the constant it should have matched
//   - Length: the bytes available and the bytes required
//   - Enum: the out-of-range discriminant (Expected is unused)
//   - Integrity: the checksum carried by the frame and the computed one
type DecodeError struct {
	Kind     ErrorKind // Category of error
	Field    string    // Layout field the violation was found in
	Offset   int       // Absolute offset of the field, -1 when unknown
	Value    uint64
	Expected uint64
	Message  string // Optional detail
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	where := e.Field
	if e.Offset >= 0 {
		where = fmt.Sprintf("%s at offset %d", e.Field, e.Offset)
	}

	var detail string
	switch e.Kind {
	case ErrKindFormat:
		detail = fmt.Sprintf("got 0x%X, want 0x%X", e.Value, e.Expected)
	case ErrKindLength:
		detail = fmt.Sprintf("need %d bytes, have %d", e.Expected, e.Value)
	case ErrKindEnum:
		detail = fmt.Sprintf("unknown discriminant %d", e.Value)
	case ErrKindIntegrity:
		detail = fmt.Sprintf("checksum 0x%02X, computed 0x%02X", e.Value, e.Expected)
	}
	if e.Message != "" {
		detail = e.Message
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, where, detail)
}

// Unwrap returns the sentinel error for the kind so that errors.Is works
func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

func newFormatError(field string, offset int, got, want uint64) *DecodeError {
	return &DecodeError{
		Kind:     ErrKindFormat,
		Field:    field,
		Offset:   offset,
		Value:    got,
		Expected: want,
	}
}

func newLengthError(field string, offset int, have, need uint64) *DecodeError {
	return &DecodeError{
		Kind:     ErrKindLength,
		Field:    field,
		Offset:   offset,
		Value:    have,
		Expected: need,
	}
}

func newEnumError(field string, offset int, value uint16) *DecodeError {
	return &DecodeError{
		Kind:   ErrKindEnum,
		Field:  field,
		Offset: offset,
		Value:  uint64(value),
	}
}

func newIntegrityError(offset int, carried, computed byte) *DecodeError {
	return &DecodeError{
		Kind:     ErrKindIntegrity,
		Field:    "checksum",
		Offset:   offset,
		Value:    uint64(carried),
		Expected: uint64(computed),
	}
}

// KindOf returns the kind of a decode error anywhere in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.Kind, true
	}
	return 0, false
}

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsLengthError checks if an error is a length error
func IsLengthError(err error) bool {
	return errors.Is(err, ErrLength)
}

// IsEnumError checks if an error is an enum error
func IsEnumError(err error) bool {
	return errors.Is(err, ErrEnum)
}

// IsIntegrityError checks if an error is an integrity error
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}
