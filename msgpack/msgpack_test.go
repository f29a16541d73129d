package msgpack

import (
	"errors"
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/tnetstring"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil transcoder")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestToValue(t *testing.T) {
	c := New()

	testCases := []struct {
		name  string
		input any
		want  tnetstring.Value
	}{
		{"nil", nil, tnetstring.Null()},
		{"bool", false, tnetstring.Bool(false)},
		{"fixint", 7, tnetstring.Int(7)},
		{"negative", -300, tnetstring.Int(-300)},
		{"uint32", uint32(70000), tnetstring.Int(70000)},
		{"max int64", uint64(math.MaxInt64), tnetstring.Int(math.MaxInt64)},
		{"float32", float32(0.5), tnetstring.Float(0.5)},
		{"float64", 2.25, tnetstring.Float(2.25)},
		{"string", "hello", tnetstring.String("hello")},
		{"binary", []byte{0xff, 0x00}, tnetstring.Bytes([]byte{0xff, 0x00})},
		{"array", []any{1, "x"}, tnetstring.List(tnetstring.Int(1), tnetstring.String("x"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := msgpack.Marshal(tc.input)
			if err != nil {
				t.Fatalf("msgpack.Marshal() error: %v", err)
			}
			got, err := c.ToValue(data)
			if err != nil {
				t.Fatalf("ToValue() error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ToValue() = %v, want %v", got.Interface(), tc.want.Interface())
			}
		})
	}
}

func TestToValue_MapKeys(t *testing.T) {
	c := New()

	data, err := msgpack.Marshal(map[int]string{7: "x"})
	if err != nil {
		t.Fatalf("msgpack.Marshal() error: %v", err)
	}
	v, err := c.ToValue(data)
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}
	d, ok := v.AsDict()
	if !ok {
		t.Fatalf("ToValue() kind = %s, want dictionary", v.Kind())
	}
	if got, _ := d.Get("7"); !got.Equal(tnetstring.String("x")) {
		t.Errorf(`Get("7") = %v, want "x"`, got.Interface())
	}
}

func TestToValue_Uint64Overflow(t *testing.T) {
	c := New()

	data, err := msgpack.Marshal(uint64(math.MaxUint64))
	if err != nil {
		t.Fatalf("msgpack.Marshal() error: %v", err)
	}
	if _, err := c.ToValue(data); !errors.Is(err, tnetstring.ErrIntegerOverflow) {
		t.Errorf("ToValue() error = %v, want ErrIntegerOverflow", err)
	}
}

func TestToValue_Errors(t *testing.T) {
	c := New()

	two, _ := msgpack.Marshal(1)
	two = append(two, two...)

	testCases := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"trailing", two},
		{"truncated array", []byte{0x92, 0x01}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.ToValue(tc.input); err == nil {
				t.Errorf("ToValue(%x) should return error", tc.input)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()

	d := tnetstring.NewDictionary()
	d.Set("zeta", tnetstring.Int(-1))
	d.Set("alpha", tnetstring.List(tnetstring.Float(1.5), tnetstring.Null(), tnetstring.Bool(true)))
	d.Set("raw", tnetstring.Bytes([]byte{0xde, 0xad}))
	d.Set("text", tnetstring.String("hello"))
	original := tnetstring.Dict(d)

	data, err := c.FromValue(original)
	if err != nil {
		t.Fatalf("FromValue() error: %v", err)
	}
	restored, err := c.ToValue(data)
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}
	if !restored.Equal(original) {
		t.Errorf("round-trip = %v, want %v", restored.Interface(), original.Interface())
	}

	rd, _ := restored.AsDict()
	keys := rd.Keys()
	if keys[0] != "zeta" || keys[1] != "alpha" {
		t.Errorf("round-trip keys = %v, want insertion order", keys)
	}
}

func TestFromValue_BinaryForInvalidUTF8(t *testing.T) {
	c := New()

	data, err := c.FromValue(tnetstring.Bytes([]byte{0xff}))
	if err != nil {
		t.Fatalf("FromValue() error: %v", err)
	}
	var out any
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("msgpack.Unmarshal() error: %v", err)
	}
	if _, ok := out.([]byte); !ok {
		t.Errorf("decoded %T, want []byte", out)
	}
}
