package tnetstring

import (
	"bytes"
	"cmp"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// maxMarshalDepth bounds recursion through self-referencing Go values.
const maxMarshalDepth = 1000

var (
	valueType         = reflect.TypeFor[Value]()
	dictionaryPtrType = reflect.TypeFor[*Dictionary]()
	marshalerType     = reflect.TypeFor[Marshaler]()
	unmarshalerType   = reflect.TypeFor[Unmarshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Marshal returns the tnetstring encoding of the Go value v.
// See ToValue for how Go values map onto tnetstring values.
func Marshal(v any) ([]byte, error) {
	val, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return Encode(val)
}

// ToValue converts a Go value into a Value.
//
// nil, nil pointers, nil slices and nil maps become Null. Booleans, integers,
// floats and strings map onto their scalar variants; []byte and [N]byte become
// strings. Slices and arrays become lists. Maps become dictionaries whose keys
// are stringified (string, integer, or encoding.TextMarshaler keys) and sorted.
// Structs become dictionaries keyed by field name or `tnet:"name"` tag.
// Types implementing Marshaler control their own Value; other types
// implementing encoding.TextMarshaler become strings.
//
// Channels, functions, complex numbers and unsafe pointers have no
// representation and fail with an *EncodeError.
func ToValue(v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	return toValue(reflect.ValueOf(v), 0)
}

func toValue(rv reflect.Value, depth int) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}
	if depth > maxMarshalDepth {
		return Value{}, &EncodeError{Type: rv.Type().String(), Reason: "nesting too deep"}
	}

	rt := rv.Type()
	switch rt {
	case valueType:
		val := rv.Interface().(Value)
		if err := checkEncodable(val); err != nil {
			return Value{}, err
		}
		return val, nil
	case dictionaryPtrType:
		if rv.IsNil() {
			return Null(), nil
		}
		return Dict(rv.Interface().(*Dictionary)), nil
	}

	if rt.Implements(marshalerType) {
		if isNilRef(rv) {
			return Null(), nil
		}
		return callMarshaler(rv.Interface().(Marshaler), rt)
	}
	if rv.CanAddr() && reflect.PointerTo(rt).Implements(marshalerType) {
		return callMarshaler(rv.Addr().Interface().(Marshaler), rt)
	}
	if rt.Implements(textMarshalerType) {
		if isNilRef(rv) {
			return Null(), nil
		}
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Value{}, &CodecError{Err: ErrMarshal, Cause: fmt.Errorf("%s: %w", rt, err)}
		}
		return Bytes(text), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, &EncodeError{Type: rt.String(), Reason: fmt.Sprintf("%d overflows int64", u)}
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		if rt.Elem().Kind() == reflect.Uint8 {
			return Bytes(bytes.Clone(rv.Bytes())), nil
		}
		return sequenceToValue(rv, depth)

	case reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b), nil
		}
		return sequenceToValue(rv, depth)

	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		return mapToValue(rv, depth)

	case reflect.Struct:
		return structToValue(rv, depth)

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return toValue(rv.Elem(), depth+1)
	}

	return Value{}, &EncodeError{Type: rt.String(), Reason: "no tnetstring representation"}
}

func callMarshaler(m Marshaler, rt reflect.Type) (Value, error) {
	val, err := m.MarshalTNetstring()
	if err != nil {
		return Value{}, &CodecError{Err: ErrMarshal, Cause: fmt.Errorf("%s: %w", rt, err)}
	}
	if err := checkEncodable(val); err != nil {
		return Value{}, err
	}
	return val, nil
}

func sequenceToValue(rv reflect.Value, depth int) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range items {
		item, err := toValue(rv.Index(i), depth+1)
		if err != nil {
			return Value{}, err
		}
		items[i] = item
	}
	return List(items...), nil
}

func mapToValue(rv reflect.Value, depth int) (Value, error) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key, err := stringifyKey(iter.Key())
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.key, b.key)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].key == entries[i-1].key {
			return Value{}, &EncodeError{Type: rv.Type().String(), Reason: fmt.Sprintf("duplicate map key %q", entries[i].key)}
		}
	}

	dict := NewDictionary()
	for _, e := range entries {
		val, err := toValue(e.val, depth+1)
		if err != nil {
			return Value{}, err
		}
		dict.Set(e.key, val)
	}
	return Dict(dict), nil
}

// isNilRef reports whether rv is a nil pointer or nil interface.
func isNilRef(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// stringifyKey renders a map key the way parseKey reads it back.
func stringifyKey(k reflect.Value) (string, error) {
	if isNilRef(k) {
		return "", &EncodeError{Type: k.Type().String(), Reason: "nil map key"}
	}
	if k.Kind() == reflect.Interface {
		return stringifyKey(k.Elem())
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", &CodecError{Err: ErrMarshal, Cause: err}
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &EncodeError{Type: k.Type().String(), Reason: "unsupported map key type"}
}

func structToValue(rv reflect.Value, depth int) (Value, error) {
	plan, err := planFor(rv.Type())
	if err != nil {
		return Value{}, err
	}

	dict := NewDictionary()
	for _, fp := range plan.fields {
		field := rv.FieldByIndex(fp.index)
		if fp.omitEmpty && field.IsZero() {
			continue
		}
		val, err := toValue(field, depth+1)
		if err != nil {
			return Value{}, err
		}
		dict.Set(fp.key, val)
	}
	return Dict(dict), nil
}
