package tnetstring

import (
	"bytes"
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind. A Value of this kind has no wire form.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInteger
	KindFloat
	KindString
	KindList
	KindDictionary
)

// Wire tags.
const (
	TagNull       byte = '~'
	TagBool       byte = '!'
	TagInteger    byte = '#'
	TagFloat      byte = '^'
	TagString     byte = ','
	TagList       byte = ']'
	TagDictionary byte = '}'
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindNull:       "null",
	KindBool:       "bool",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindString:     "string",
	KindList:       "list",
	KindDictionary: "dictionary",
}

var kindTags = [...]byte{
	KindNull:       TagNull,
	KindBool:       TagBool,
	KindInteger:    TagInteger,
	KindFloat:      TagFloat,
	KindString:     TagString,
	KindList:       TagList,
	KindDictionary: TagDictionary,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Tag returns the wire tag for k, or 0 for KindInvalid.
func (k Kind) Tag() byte {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return 0
}

// Value is a single tnetstring value.
//
// The zero Value is invalid and cannot be encoded. Construct values with
// Null, Bool, Int, Float, Bytes, String, List, and Dict.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    []byte
	list []Value
	dict *Dictionary
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bytes returns a string value holding b. The slice is not copied.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindString, s: b}
}

// String returns a string value holding s.
func String(s string) Value { return Value{kind: KindString, s: []byte(s)} }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Dict returns a dictionary value. A nil d yields an empty dictionary.
func Dict(d *Dictionary) Value {
	if d == nil {
		d = NewDictionary()
	}
	return Value{kind: KindDictionary, dict: d}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a variant with a wire form.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBytes returns the raw bytes held by a string value.
func (v Value) AsBytes() ([]byte, bool) { return v.s, v.kind == KindString }

// AsString returns the bytes held by a string value as a Go string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.s), true
}

// AsList returns the items held by a list value.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsDict returns the dictionary held by a dictionary value.
func (v Value) AsDict() (*Dictionary, bool) { return v.dict, v.kind == KindDictionary }

// Equal reports whether v and o hold the same variant and contents.
// Dictionaries compare by key set, not by insertion order. NaN floats are
// equal to each other so that decoded values compare equal to their source.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInvalid, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return bytes.Equal(v.s, o.s)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		return v.dict.Equal(o.dict)
	}
	return false
}

// Interface converts v into plain Go values: nil, bool, int64, float64,
// string, []any, or map[string]any. Invalid values convert to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return string(v.s)
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindDictionary:
		out := make(map[string]any, v.dict.Len())
		for k, item := range v.dict.All() {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}
