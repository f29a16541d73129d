package tnetstring

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"
	"testing/quick"
)

func roundTrip(t *testing.T, v Value) bool {
	data, err := Encode(v)
	if err != nil {
		t.Logf("encode failed: %v", err)
		return false
	}
	got, err := DecodeOne(data)
	if err != nil {
		t.Logf("decode failed: %v", err)
		return false
	}
	return got.Equal(v)
}

// Property: Decode(Encode(String(b))) == String(b)
func TestProperty_StringRoundTrip(t *testing.T) {
	property := func(b []byte) bool {
		return roundTrip(t, Bytes(b))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: every int64 survives canonical rendering.
func TestProperty_IntegerRoundTrip(t *testing.T) {
	property := func(i int64) bool {
		return roundTrip(t, Int(i))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_FloatRoundTrip(t *testing.T) {
	property := func(f float64) bool {
		return roundTrip(t, Float(f))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_ListRoundTrip(t *testing.T) {
	property := func(ints []int64, strs []string, flag bool) bool {
		items := make([]Value, 0, len(ints)+len(strs)+1)
		for _, i := range ints {
			items = append(items, Int(i))
		}
		for _, s := range strs {
			items = append(items, List(String(s), Null()))
		}
		items = append(items, Bool(flag))
		return roundTrip(t, List(items...))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_MapRoundTrip(t *testing.T) {
	property := func(m map[string]int64) bool {
		data, err := Marshal(m)
		if err != nil {
			return false
		}
		var out map[string]int64
		if err := Unmarshal(data, &out); err != nil {
			return false
		}
		if len(m) == 0 {
			return len(out) == 0
		}
		return reflect.DeepEqual(m, out)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: arbitrary input never panics the decoder.
func TestProperty_DecodeNeverPanics(t *testing.T) {
	property := func(b []byte) bool {
		_, _ = Decode(b)
		_, _ = NewDecoder(MaxDepth(2), MaxLength(16)).Decode(b)
		return true
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: concatenated units decode back in order.
func TestProperty_Concatenation(t *testing.T) {
	property := func(a, b int64) bool {
		var data []byte
		data, _ = Append(data, Int(a))
		data, _ = Append(data, Int(b))
		values, err := Decode(data)
		if err != nil || len(values) != 2 {
			return false
		}
		return values[0].Equal(Int(a)) && values[1].Equal(Int(b))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: a length prefix that is off by any amount never decodes back to
// the original unit.
func TestProperty_LengthIsExact(t *testing.T) {
	property := func(s string, n int64, shift uint8, grow bool) bool {
		v := List(String(s), Int(n))
		data, err := Encode(v)
		if err != nil {
			return false
		}

		colon := bytes.IndexByte(data, ':')
		length, err := strconv.Atoi(string(data[:colon]))
		if err != nil {
			return false
		}
		k := int(shift%3) + 1
		if !grow {
			k = -k
		}

		mutated := strconv.AppendInt(nil, int64(length+k), 10)
		mutated = append(mutated, data[colon:]...)

		values, err := Decode(mutated)
		if err != nil {
			return true
		}
		return len(values) != 1 || !values[0].Equal(v)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
