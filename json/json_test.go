package json

import (
	"errors"
	"math"
	"testing"

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
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestToValue(t *testing.T) {
	c := New()

	nested := tnetstring.NewDictionary()
	nested.Set("b", tnetstring.Int(1))
	nested.Set("a", tnetstring.List(tnetstring.Bool(true), tnetstring.Null(), tnetstring.String("x")))

	testCases := []struct {
		name  string
		input string
		want  tnetstring.Value
	}{
		{"null", `null`, tnetstring.Null()},
		{"true", `true`, tnetstring.Bool(true)},
		{"integer", `10`, tnetstring.Int(10)},
		{"negative integer", `-42`, tnetstring.Int(-42)},
		{"fraction", `1.5`, tnetstring.Float(1.5)},
		{"exponent", `2e3`, tnetstring.Float(2000)},
		{"string", `"hello"`, tnetstring.String("hello")},
		{"empty list", `[]`, tnetstring.List()},
		{"empty object", `{}`, tnetstring.Dict(nil)},
		{"nested", `{"b":1,"a":[true,null,"x"]}`, tnetstring.Dict(nested)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ToValue([]byte(tc.input))
			if err != nil {
				t.Fatalf("ToValue(%s) error: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ToValue(%s) = %v, want %v", tc.input, got.Interface(), tc.want.Interface())
			}
		})
	}
}

func TestToValue_KeyOrder(t *testing.T) {
	c := New()

	v, err := c.ToValue([]byte(`{"zeta":1,"alpha":2,"mid":3}`))
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}
	d, _ := v.AsDict()
	keys := d.Keys()
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestToValue_Errors(t *testing.T) {
	c := New()

	testCases := []struct {
		name  string
		input string
	}{
		{"invalid", `invalid json`},
		{"empty", ``},
		{"trailing", `1 2`},
		{"unclosed", `[1, 2`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.ToValue([]byte(tc.input)); err == nil {
				t.Errorf("ToValue(%q) should return error", tc.input)
			}
		})
	}
}

func TestToValue_IntegerOverflow(t *testing.T) {
	c := New()

	_, err := c.ToValue([]byte(`9223372036854775808`))
	if !errors.Is(err, tnetstring.ErrIntegerOverflow) {
		t.Errorf("ToValue() error = %v, want ErrIntegerOverflow", err)
	}
}

func TestFromValue(t *testing.T) {
	c := New()

	d := tnetstring.NewDictionary()
	d.Set("b", tnetstring.Int(1))
	d.Set("a", tnetstring.List(tnetstring.Bool(true), tnetstring.Null(), tnetstring.String("x")))
	d.Set("f", tnetstring.Float(3))

	got, err := c.FromValue(tnetstring.Dict(d))
	if err != nil {
		t.Fatalf("FromValue() error: %v", err)
	}
	want := `{"b":1,"a":[true,null,"x"],"f":3.0}`
	if string(got) != want {
		t.Errorf("FromValue() = %s, want %s", got, want)
	}
}

func TestFromValue_NonFinite(t *testing.T) {
	c := New()

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := c.FromValue(tnetstring.Float(f)); err == nil {
			t.Errorf("FromValue(%v) should return error", f)
		}
	}
}

func TestFromValue_Invalid(t *testing.T) {
	c := New()

	_, err := c.FromValue(tnetstring.Value{})
	if !errors.Is(err, tnetstring.ErrEncode) {
		t.Errorf("FromValue(zero) error = %v, want ErrEncode", err)
	}
}

func TestImportExport(t *testing.T) {
	c := New()

	data, err := tnetstring.Import(c, []byte(`{"x":1}`))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if string(data) != "8:1:x,1:1#}" {
		t.Errorf("Import() = %q, want %q", data, "8:1:x,1:1#}")
	}

	back, err := tnetstring.Export(c, data)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if string(back) != `{"x":1}` {
		t.Errorf("Export() = %s, want %s", back, `{"x":1}`)
	}
}
