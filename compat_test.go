package tnetstring

import (
	"reflect"
	"strings"
	"testing"
)

func TestDecodeAny(t *testing.T) {
	v, err := DecodeAny([]byte("5:12345#"))
	if err != nil {
		t.Fatalf("DecodeAny() error: %v", err)
	}
	if v != int64(12345) {
		t.Errorf("DecodeAny() = %#v, want int64(12345)", v)
	}

	v, err = DecodeAny([]byte("5:12345#5:67890#"))
	if err != nil {
		t.Fatalf("DecodeAny() error: %v", err)
	}
	if want := []any{int64(12345), int64(67890)}; !reflect.DeepEqual(v, want) {
		t.Errorf("DecodeAny() = %#v, want %#v", v, want)
	}

	if _, err := DecodeAny(nil); err == nil {
		t.Error("DecodeAny(nil) should fail")
	}
}

func TestEncodeOrNil(t *testing.T) {
	ClearLastError()
	t.Cleanup(ClearLastError)

	if got := EncodeOrNil([]int{1}); string(got) != "4:1:1#]" {
		t.Errorf("EncodeOrNil() = %q", got)
	}
	if LastError() != "" {
		t.Errorf("LastError() = %q after success", LastError())
	}

	if got := EncodeOrNil(make(chan int)); got != nil {
		t.Errorf("EncodeOrNil() = %q, want nil", got)
	}
	if !strings.Contains(LastError(), "unencodable value") {
		t.Errorf("LastError() = %q", LastError())
	}

	ClearLastError()
	if LastError() != "" {
		t.Errorf("LastError() = %q after ClearLastError", LastError())
	}
}

func TestEncodeOrNil_NilInterfaces(t *testing.T) {
	ClearLastError()
	t.Cleanup(ClearLastError)

	if got := EncodeOrNil([]Marshaler{nil}); string(got) != "3:0:~]" {
		t.Errorf("EncodeOrNil() = %q", got)
	}
	if got := EncodeOrNil(map[any]any{nil: 1}); got != nil {
		t.Errorf("EncodeOrNil() = %q, want nil", got)
	}
	if !strings.Contains(LastError(), "nil map key") {
		t.Errorf("LastError() = %q", LastError())
	}
}

func TestDecodeOrNil(t *testing.T) {
	ClearLastError()
	t.Cleanup(ClearLastError)

	if got := DecodeOrNil([]byte("2:hi,")); got != "hi" {
		t.Errorf("DecodeOrNil() = %#v, want hi", got)
	}

	if got := DecodeOrNil([]byte("2:hi")); got != nil {
		t.Errorf("DecodeOrNil() = %#v, want nil", got)
	}
	if !strings.Contains(LastError(), "truncated payload") {
		t.Errorf("LastError() = %q", LastError())
	}
}
