package tnetstring

import "sync"

// The functions in this file reproduce the historical tnetstring_* API:
// errors are swallowed, the call returns nil, and the message is kept in a
// single process-wide slot. The slot belongs to whichever caller failed last,
// so concurrent callers cannot rely on reading their own error. New code
// should use Encode, Decode and Marshal, which return errors directly.

var (
	lastErr   string
	lastErrMu sync.Mutex
)

// DecodeAny decodes data into plain Go values. A single unit is returned as
// is; several concatenated units are returned as []any in order.
func DecodeAny(data []byte) (any, error) {
	values, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		return values[0].Interface(), nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}
	return out, nil
}

// EncodeOrNil marshals v, returning nil and recording the error on failure.
func EncodeOrNil(v any) []byte {
	data, err := Marshal(v)
	if err != nil {
		setLastError(err)
		return nil
	}
	return data
}

// DecodeOrNil behaves like DecodeAny, returning nil and recording the error
// on failure.
func DecodeOrNil(data []byte) any {
	v, err := DecodeAny(data)
	if err != nil {
		setLastError(err)
		return nil
	}
	return v
}

// LastError returns the message of the last EncodeOrNil or DecodeOrNil
// failure, or "" if none occurred since the last ClearLastError.
func LastError() string {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	return lastErr
}

// ClearLastError forgets the last recorded error.
func ClearLastError() {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	lastErr = ""
}

func setLastError(err error) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	lastErr = err.Error()
}
