package tnetstring

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrEmptyInput indicates Decode was given no bytes.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedLength indicates a length prefix without a colon or with non-digit bytes.
	ErrMalformedLength = errors.New("malformed length")

	// ErrTruncatedPayload indicates fewer bytes remain than the length prefix plus a tag.
	ErrTruncatedPayload = errors.New("truncated payload")

	// ErrInvalidNull indicates a null unit carrying a payload.
	ErrInvalidNull = errors.New("invalid null")

	// ErrInvalidInteger indicates an integer payload that is not canonical base-10.
	ErrInvalidInteger = errors.New("invalid integer")

	// ErrIntegerOverflow indicates an integer payload outside the int64 range.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrInvalidFloat indicates a float payload that does not parse.
	ErrInvalidFloat = errors.New("invalid float")

	// ErrOddDictionaryEntries indicates a dictionary payload with a key but no value.
	ErrOddDictionaryEntries = errors.New("odd dictionary entries")

	// ErrInvalidDictionaryKey indicates a dictionary key that is not a string.
	ErrInvalidDictionaryKey = errors.New("invalid dictionary key")

	// ErrTooDeep indicates nesting beyond the decoder's depth limit.
	ErrTooDeep = errors.New("nesting too deep")

	// ErrTooLarge indicates a length prefix above the decoder's length limit.
	ErrTooLarge = errors.New("length exceeds maximum")

	// ErrMultipleValues indicates DecodeOne found more than one top-level unit.
	ErrMultipleValues = errors.New("multiple values")

	// ErrEncode indicates a value with no tnetstring representation.
	ErrEncode = errors.New("unencodable value")

	// ErrMarshal indicates a Go value could not be converted to a Value.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates a Value could not be assigned to a Go value.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrMissingHasher indicates a required hasher was not registered.
	ErrMissingHasher = errors.New("missing hasher")

	// ErrMissingMasker indicates a required masker was not registered.
	ErrMissingMasker = errors.New("missing masker")

	// ErrHash indicates hashing of a field failed.
	ErrHash = errors.New("hash failed")
)

// DecodeError describes a malformed unit.
// It wraps one of the decode sentinels with the position and contents of the unit.
type DecodeError struct {
	Err     error  // Underlying sentinel error (ErrMalformedLength, etc.)
	Offset  int    // Byte offset of the unit within the buffer passed to Decode
	Tag     byte   // Type tag of the unit, 0 if framing failed before the tag
	Payload []byte // Offending payload or length prefix
}

func (e *DecodeError) Error() string {
	if e.Tag != 0 {
		return fmt.Sprintf("%s at offset %d: payload %q tagged %q", e.Err.Error(), e.Offset, e.Payload, e.Tag)
	}
	if e.Payload != nil {
		return fmt.Sprintf("%s at offset %d: %q", e.Err.Error(), e.Offset, e.Payload)
	}
	return fmt.Sprintf("%s at offset %d", e.Err.Error(), e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError describes a value that has no tnetstring form.
type EncodeError struct {
	Type   string // Go type or Value kind that was rejected
	Reason string
}

func (e *EncodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s: %s", ErrEncode.Error(), e.Type, e.Reason)
	}
	return fmt.Sprintf("%s %s", ErrEncode.Error(), e.Type)
}

func (e *EncodeError) Unwrap() error {
	return ErrEncode
}

// ConfigError represents a processor configuration error.
// It wraps a sentinel error with additional context about the field and algorithm.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrInvalidTag, ErrMissingHasher, ErrMissingMasker)
	Field     string // Field name that triggered the error
	Algorithm string // Hash algorithm or mask type that was missing or invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q (field %s)", e.Err.Error(), e.Algorithm, e.Field)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q", e.Err.Error(), e.Algorithm)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error or mismatch description
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func newDecodeError(sentinel error, offset int, tag byte, payload []byte) error {
	return &DecodeError{
		Err:     sentinel,
		Offset:  offset,
		Tag:     tag,
		Payload: payload,
	}
}

func newConfigError(sentinel error, algorithm, field string) error {
	return &ConfigError{
		Err:       sentinel,
		Algorithm: algorithm,
		Field:     field,
	}
}

// newUnmarshalError builds a CodecError for a value/target mismatch.
func newUnmarshalError(format string, args ...any) error {
	return &CodecError{
		Err:   ErrUnmarshal,
		Cause: fmt.Errorf(format, args...),
	}
}
