package tnetstring

import (
	"bytes"
	"encoding"
	"reflect"
	"strconv"
)

// Unmarshal decodes data, which must hold exactly one unit, into the value
// pointed to by v. See FromValue for the assignment rules.
func Unmarshal(data []byte, v any) error {
	val, err := DecodeOne(data)
	if err != nil {
		return err
	}
	return FromValue(val, v)
}

// FromValue assigns val to the value pointed to by v.
//
// Null resets the target to its zero value. Integers are accepted by float
// targets. Strings are accepted by string, []byte and [N]byte targets.
// Dictionaries fill maps with string or integer keys and structs; keys that
// match no struct field are ignored. An empty interface target receives
// val.Interface(). Strings are passed to encoding.TextUnmarshaler targets.
func FromValue(val Value, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return newUnmarshalError("target must be a non-nil pointer, got %T", v)
	}
	return assign(val, rv.Elem())
}

func assign(val Value, rv reflect.Value) error {
	rt := rv.Type()

	switch rt {
	case valueType:
		rv.Set(reflect.ValueOf(val))
		return nil
	case dictionaryPtrType:
		if val.IsNull() {
			rv.Set(reflect.Zero(rt))
			return nil
		}
		dict, ok := val.AsDict()
		if !ok {
			return mismatch(val, rt)
		}
		rv.Set(reflect.ValueOf(dict))
		return nil
	}

	if rv.Kind() == reflect.Ptr {
		if val.IsNull() {
			rv.Set(reflect.Zero(rt))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rt.Elem()))
		}
		return assign(val, rv.Elem())
	}

	if rv.CanAddr() && reflect.PointerTo(rt).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalTNetstring(val)
	}
	if b, ok := val.AsBytes(); ok && rv.CanAddr() && reflect.PointerTo(rt).Implements(textUnmarshalType) {
		if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText(b); err != nil {
			return &CodecError{Err: ErrUnmarshal, Cause: err}
		}
		return nil
	}

	if rv.Kind() == reflect.Interface {
		if rt.NumMethod() != 0 {
			return newUnmarshalError("cannot assign %s to non-empty interface %s", val.Kind(), rt)
		}
		if val.IsNull() {
			rv.Set(reflect.Zero(rt))
			return nil
		}
		rv.Set(reflect.ValueOf(val.Interface()))
		return nil
	}

	if val.IsNull() {
		rv.Set(reflect.Zero(rt))
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, ok := val.AsBool()
		if !ok {
			return mismatch(val, rt)
		}
		rv.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := val.AsInt()
		if !ok {
			return mismatch(val, rt)
		}
		if rv.OverflowInt(i) {
			return newUnmarshalError("%d overflows %s", i, rt)
		}
		rv.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := val.AsInt()
		if !ok {
			return mismatch(val, rt)
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return newUnmarshalError("%d overflows %s", i, rt)
		}
		rv.SetUint(uint64(i))

	case reflect.Float32, reflect.Float64:
		f, ok := val.AsFloat()
		if !ok {
			i, isInt := val.AsInt()
			if !isInt {
				return mismatch(val, rt)
			}
			f = float64(i)
		}
		if rv.OverflowFloat(f) {
			return newUnmarshalError("%g overflows %s", f, rt)
		}
		rv.SetFloat(f)

	case reflect.String:
		s, ok := val.AsString()
		if !ok {
			return mismatch(val, rt)
		}
		rv.SetString(s)

	case reflect.Slice:
		return assignSlice(val, rv)

	case reflect.Array:
		return assignArray(val, rv)

	case reflect.Map:
		return assignMap(val, rv)

	case reflect.Struct:
		return assignStruct(val, rv)

	default:
		return newUnmarshalError("unsupported target type %s", rt)
	}
	return nil
}

func assignSlice(val Value, rv reflect.Value) error {
	rt := rv.Type()
	if rt.Elem().Kind() == reflect.Uint8 {
		if b, ok := val.AsBytes(); ok {
			rv.SetBytes(bytes.Clone(b))
			return nil
		}
	}
	items, ok := val.AsList()
	if !ok {
		return mismatch(val, rt)
	}
	out := reflect.MakeSlice(rt, len(items), len(items))
	for i, item := range items {
		if err := assign(item, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func assignArray(val Value, rv reflect.Value) error {
	rt := rv.Type()
	rv.Set(reflect.Zero(rt))
	if rt.Elem().Kind() == reflect.Uint8 {
		if b, ok := val.AsBytes(); ok {
			if len(b) > rv.Len() {
				return newUnmarshalError("%d bytes overflow %s", len(b), rt)
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
	}
	items, ok := val.AsList()
	if !ok {
		return mismatch(val, rt)
	}
	if len(items) > rv.Len() {
		return newUnmarshalError("%d items overflow %s", len(items), rt)
	}
	for i, item := range items {
		if err := assign(item, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func assignMap(val Value, rv reflect.Value) error {
	rt := rv.Type()
	dict, ok := val.AsDict()
	if !ok {
		return mismatch(val, rt)
	}
	out := reflect.MakeMapWithSize(rt, dict.Len())
	for k, item := range dict.All() {
		key, err := parseKey(k, rt.Key())
		if err != nil {
			return err
		}
		elem := reflect.New(rt.Elem()).Elem()
		if err := assign(item, elem); err != nil {
			return err
		}
		out.SetMapIndex(key, elem)
	}
	rv.Set(out)
	return nil
}

// parseKey is the inverse of stringifyKey.
func parseKey(k string, kt reflect.Type) (reflect.Value, error) {
	if kt.Kind() != reflect.String && reflect.PointerTo(kt).Implements(textUnmarshalType) {
		key := reflect.New(kt)
		if err := key.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(k)); err != nil {
			return reflect.Value{}, &CodecError{Err: ErrUnmarshal, Cause: err}
		}
		return key.Elem(), nil
	}

	key := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		key.SetString(k)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(k, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, newUnmarshalError("map key %q: %v", k, err)
		}
		key.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(k, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, newUnmarshalError("map key %q: %v", k, err)
		}
		key.SetUint(u)
	default:
		return reflect.Value{}, newUnmarshalError("unsupported map key type %s", kt)
	}
	return key, nil
}

func assignStruct(val Value, rv reflect.Value) error {
	rt := rv.Type()
	dict, ok := val.AsDict()
	if !ok {
		return mismatch(val, rt)
	}
	plan, err := planFor(rt)
	if err != nil {
		return err
	}
	for k, item := range dict.All() {
		i, ok := plan.byKey[k]
		if !ok {
			continue
		}
		fp := plan.fields[i]
		if err := assign(item, rv.FieldByIndex(fp.index)); err != nil {
			return newUnmarshalError("field %s.%s: %w", plan.typeName, fp.goName, err)
		}
	}
	return nil
}

func mismatch(val Value, rt reflect.Type) error {
	return newUnmarshalError("cannot assign %s to %s", val.Kind(), rt)
}
