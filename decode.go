package tnetstring

import (
	"bytes"
	"errors"
	"math"
	"strconv"
)

var trueLiteral = []byte("true")

// Decoder parses tnetstring buffers.
//
// A Decoder holds only its configuration and is safe for concurrent use.
type Decoder struct {
	maxDepth  int
	maxLength int
}

// NewDecoder creates a decoder configured by opts.
//
// Example:
//
//	dec := tnetstring.NewDecoder(tnetstring.MaxDepth(32), tnetstring.MaxLength(1<<20))
func NewDecoder(opts ...Option) *Decoder {
	cfg := &config{
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Decoder{
		maxDepth:  cfg.maxDepth,
		maxLength: cfg.maxLength,
	}
}

var defaultDecoder = NewDecoder()

// Decode parses every unit in data using the default decoder.
func Decode(data []byte) ([]Value, error) {
	return defaultDecoder.Decode(data)
}

// DecodeOne parses data, which must hold exactly one unit, using the default decoder.
func DecodeOne(data []byte) (Value, error) {
	return defaultDecoder.DecodeOne(data)
}

// Decode parses every unit in data and returns the values in order.
// The result always has at least one element when err is nil.
func (d *Decoder) Decode(data []byte) ([]Value, error) {
	if len(data) == 0 {
		return nil, newDecodeError(ErrEmptyInput, 0, 0, nil)
	}
	return d.decodeUnits(data, 0, 0)
}

// DecodeOne parses data and returns its single unit.
// It fails with ErrMultipleValues if data holds more than one unit.
func (d *Decoder) DecodeOne(data []byte) (Value, error) {
	values, err := d.Decode(data)
	if err != nil {
		return Value{}, err
	}
	if len(values) != 1 {
		return Value{}, &DecodeError{Err: ErrMultipleValues, Offset: 0}
	}
	return values[0], nil
}

// decodeUnits parses consecutive units from data. base is the offset of data
// within the top-level buffer and depth the current container nesting.
func (d *Decoder) decodeUnits(data []byte, base, depth int) ([]Value, error) {
	var values []Value
	pos := 0
	for pos < len(data) {
		start := pos

		colon := bytes.IndexByte(data[pos:], ':')
		if colon < 0 {
			return nil, newDecodeError(ErrMalformedLength, base+start, 0, clip(data[pos:]))
		}
		prefix := data[pos : pos+colon]
		n, ok := parseLength(prefix)
		if !ok {
			return nil, newDecodeError(ErrMalformedLength, base+start, 0, clip(prefix))
		}
		if d.maxLength > 0 && n > d.maxLength {
			return nil, newDecodeError(ErrTooLarge, base+start, 0, clip(prefix))
		}
		pos += colon + 1

		// The tag byte must follow the payload even when the payload is empty.
		if n >= len(data)-pos {
			return nil, newDecodeError(ErrTruncatedPayload, base+start, 0, clip(data[pos:]))
		}
		payload := data[pos : pos+n]
		tag := data[pos+n]

		v, err := d.convert(payload, tag, base+start, base+pos, depth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		pos += n + 1
	}
	return values, nil
}

// convert turns one payload into a Value according to its tag.
func (d *Decoder) convert(payload []byte, tag byte, offset, payloadOffset, depth int) (Value, error) {
	switch tag {
	case TagNull:
		if len(payload) != 0 {
			return Value{}, newDecodeError(ErrInvalidNull, offset, tag, clip(payload))
		}
		return Null(), nil

	case TagBool:
		// Anything other than a case-insensitive "true" reads as false.
		return Bool(bytes.EqualFold(payload, trueLiteral)), nil

	case TagInteger:
		i, err := parseInteger(payload)
		if err != nil {
			return Value{}, newDecodeError(err, offset, tag, clip(payload))
		}
		return Int(i), nil

	case TagFloat:
		if !isDecimalFloat(payload) {
			return Value{}, newDecodeError(ErrInvalidFloat, offset, tag, clip(payload))
		}
		f, err := strconv.ParseFloat(string(payload), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, newDecodeError(ErrInvalidFloat, offset, tag, clip(payload))
		}
		return Float(f), nil

	case TagList:
		items, err := d.decodeContainer(payload, tag, offset, payloadOffset, depth)
		if err != nil {
			return Value{}, err
		}
		return List(items...), nil

	case TagDictionary:
		items, err := d.decodeContainer(payload, tag, offset, payloadOffset, depth)
		if err != nil {
			return Value{}, err
		}
		if len(items)%2 != 0 {
			return Value{}, newDecodeError(ErrOddDictionaryEntries, offset, tag, clip(payload))
		}
		dict := NewDictionary()
		for i := 0; i < len(items); i += 2 {
			key, ok := items[i].AsString()
			if !ok {
				return Value{}, newDecodeError(ErrInvalidDictionaryKey, offset, tag, clip(payload))
			}
			dict.Set(key, items[i+1])
		}
		return Dict(dict), nil
	}

	// Strings, and any tag this decoder does not know, carry raw bytes.
	return Bytes(bytes.Clone(payload)), nil
}

// decodeContainer parses the units inside a list or dictionary payload.
func (d *Decoder) decodeContainer(payload []byte, tag byte, offset, payloadOffset, depth int) ([]Value, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	if d.maxDepth > 0 && depth+1 > d.maxDepth {
		return nil, newDecodeError(ErrTooDeep, offset, tag, nil)
	}
	return d.decodeUnits(payload, payloadOffset, depth+1)
}

// parseLength parses a non-empty run of ASCII digits.
func parseLength(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		digit := int(c - '0')
		if n > (math.MaxInt-digit)/10 {
			return 0, false
		}
		n = n*10 + digit
	}
	return n, true
}

// parseInteger parses a canonical base-10 int64: an optional '-', then
// digits without leading zeros. "-0" is not canonical. Shape is checked
// before range, so a malformed payload never reports overflow.
func parseInteger(b []byte) (int64, error) {
	digits := b
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 || !allDigits(digits) {
		return 0, ErrInvalidInteger
	}
	if digits[0] == '0' && (len(digits) > 1 || len(b) > 1) {
		return 0, ErrInvalidInteger
	}

	i, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrIntegerOverflow
		}
		return 0, ErrInvalidInteger
	}
	return i, nil
}

// isDecimalFloat reports whether b is a float in the form the encoder
// writes: NaN, +Inf, -Inf, or an optionally signed decimal with an
// optional exponent. Hex floats, underscores and spelled-out infinities
// are rejected.
func isDecimalFloat(b []byte) bool {
	switch string(b) {
	case "NaN", "+Inf", "-Inf":
		return true
	}

	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	start := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	mantissa := i - start
	if i < len(b) && b[i] == '.' {
		i++
		frac := i
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		mantissa += i - frac
	}
	if mantissa == 0 {
		return false
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i == len(b) || !allDigits(b[i:]) {
			return false
		}
		i = len(b)
	}
	return i == len(b)
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// maxErrorPayload caps how much of a payload an error carries.
const maxErrorPayload = 64

func clip(b []byte) []byte {
	if len(b) > maxErrorPayload {
		b = b[:maxErrorPayload]
	}
	return bytes.Clone(b)
}
