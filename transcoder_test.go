package tnetstring

import (
	"errors"
	"strings"
	"testing"
)

// upperTranscoder treats its foreign format as a bare string, upper-cased on export.
type upperTranscoder struct {
	fail error
}

func (u *upperTranscoder) ContentType() string { return "text/upper" }

func (u *upperTranscoder) ToValue(data []byte) (Value, error) {
	if u.fail != nil {
		return Value{}, u.fail
	}
	return String(string(data)), nil
}

func (u *upperTranscoder) FromValue(v Value) ([]byte, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	s, ok := v.AsString()
	if !ok {
		return nil, errors.New("not a string")
	}
	return []byte(strings.ToUpper(s)), nil
}

func TestImport(t *testing.T) {
	data, err := Import(&upperTranscoder{}, []byte("abc"))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if string(data) != "3:abc," {
		t.Errorf("Import() = %q", data)
	}
}

func TestImport_Error(t *testing.T) {
	cause := errors.New("bad document")
	_, err := Import(&upperTranscoder{fail: cause}, []byte("abc"))
	if !errors.Is(err, cause) {
		t.Fatalf("Import() error = %v, want cause", err)
	}
	if !strings.HasPrefix(err.Error(), "import text/upper: ") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestImport_InvalidValue(t *testing.T) {
	tr := &invalidTranscoder{}
	if _, err := Import(tr, nil); !errors.Is(err, ErrEncode) {
		t.Errorf("Import() error = %v, want ErrEncode", err)
	}
}

func TestExport(t *testing.T) {
	out, err := Export(&upperTranscoder{}, []byte("3:abc,"))
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if string(out) != "ABC" {
		t.Errorf("Export() = %q", out)
	}
}

func TestExport_Errors(t *testing.T) {
	if _, err := Export(&upperTranscoder{}, []byte("3:abc")); !errors.Is(err, ErrTruncatedPayload) {
		t.Errorf("Export() error = %v, want ErrTruncatedPayload", err)
	}
	if _, err := Export(&upperTranscoder{}, []byte("0:~0:~")); !errors.Is(err, ErrMultipleValues) {
		t.Errorf("Export() error = %v, want ErrMultipleValues", err)
	}

	_, err := Export(&upperTranscoder{}, []byte("1:1#"))
	if err == nil || err.Error() != "export text/upper: not a string" {
		t.Errorf("Export() error = %v", err)
	}
}

type invalidTranscoder struct{}

func (invalidTranscoder) ContentType() string { return "application/x-invalid" }

func (invalidTranscoder) ToValue([]byte) (Value, error) { return List(Value{}), nil }

func (invalidTranscoder) FromValue(Value) ([]byte, error) { return nil, nil }
