package bson

import (
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/tnetstring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil transcoder")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestToValue(t *testing.T) {
	c := New()

	data, err := bson.Marshal(bson.D{
		{Key: "b", Value: int32(1)},
		{Key: "a", Value: bson.A{true, nil, "x"}},
		{Key: "d", Value: bson.D{{Key: "z", Value: 1.5}}},
		{Key: "raw", Value: primitive.Binary{Data: []byte{0xff}}},
		{Key: "big", Value: int64(1) << 40},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	got, err := c.ToValue(data)
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}

	inner := tnetstring.NewDictionary()
	inner.Set("z", tnetstring.Float(1.5))
	want := tnetstring.NewDictionary()
	want.Set("b", tnetstring.Int(1))
	want.Set("a", tnetstring.List(tnetstring.Bool(true), tnetstring.Null(), tnetstring.String("x")))
	want.Set("d", tnetstring.Dict(inner))
	want.Set("raw", tnetstring.Bytes([]byte{0xff}))
	want.Set("big", tnetstring.Int(1<<40))

	if !got.Equal(tnetstring.Dict(want)) {
		t.Errorf("ToValue() = %v, want %v", got.Interface(), tnetstring.Dict(want).Interface())
	}

	d, _ := got.AsDict()
	if keys := d.Keys(); keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want document order", keys)
	}
}

func TestToValue_ExtendedTypes(t *testing.T) {
	c := New()

	id := primitive.NewObjectID()
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := bson.Marshal(bson.D{
		{Key: "id", Value: id},
		{Key: "at", Value: primitive.NewDateTimeFromTime(when)},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	got, err := c.ToValue(data)
	if err != nil {
		t.Fatalf("ToValue() error: %v", err)
	}
	d, _ := got.AsDict()
	if v, _ := d.Get("id"); !v.Equal(tnetstring.String(id.Hex())) {
		t.Errorf("id = %v, want %s", v.Interface(), id.Hex())
	}
	if v, _ := d.Get("at"); !v.Equal(tnetstring.String("2024-01-02T03:04:05Z")) {
		t.Errorf("at = %v, want 2024-01-02T03:04:05Z", v.Interface())
	}
}

func TestToValue_Invalid(t *testing.T) {
	c := New()

	if _, err := c.ToValue([]byte("not bson")); err == nil {
		t.Error("ToValue(invalid) should return error")
	}
}

func TestFromValue_NotDocument(t *testing.T) {
	c := New()

	for _, v := range []tnetstring.Value{tnetstring.Int(1), tnetstring.List(), tnetstring.Null()} {
		if _, err := c.FromValue(v); !errors.Is(err, ErrNotDocument) {
			t.Errorf("FromValue(%s) error = %v, want ErrNotDocument", v.Kind(), err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()

	inner := tnetstring.NewDictionary()
	inner.Set("deep", tnetstring.List(tnetstring.Int(1), tnetstring.Int(2)))

	d := tnetstring.NewDictionary()
	d.Set("zeta", tnetstring.Int(-1))
	d.Set("alpha", tnetstring.Float(0.25))
	d.Set("text", tnetstring.String("hello"))
	d.Set("raw", tnetstring.Bytes([]byte{0xde, 0xad}))
	d.Set("none", tnetstring.Null())
	d.Set("yes", tnetstring.Bool(true))
	d.Set("nested", tnetstring.Dict(inner))
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
}
