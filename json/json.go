// Package json provides a JSON transcoder for tnetstrings.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zoobzio/tnetstring"
)

// jsonTranscoder implements tnetstring.Transcoder for JSON.
type jsonTranscoder struct{}

// New returns a JSON transcoder.
//
// Object key order is preserved in both directions. Numbers without a
// fraction or exponent become integers; all others become floats.
func New() tnetstring.Transcoder {
	return &jsonTranscoder{}
}

// ContentType returns the MIME type for JSON.
func (t *jsonTranscoder) ContentType() string {
	return "application/json"
}

// ToValue parses a single JSON document.
func (t *jsonTranscoder) ToValue(data []byte) (tnetstring.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		return tnetstring.Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return tnetstring.Value{}, errors.New("json: trailing data after document")
	}
	return v, nil
}

func readValue(dec *json.Decoder) (tnetstring.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return tnetstring.Value{}, fmt.Errorf("json: %w", err)
	}

	switch tok := tok.(type) {
	case nil:
		return tnetstring.Null(), nil
	case bool:
		return tnetstring.Bool(tok), nil
	case string:
		return tnetstring.String(tok), nil
	case json.Number:
		return readNumber(tok)
	case json.Delim:
		switch tok {
		case '[':
			items := []tnetstring.Value{}
			for dec.More() {
				item, err := readValue(dec)
				if err != nil {
					return tnetstring.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return tnetstring.Value{}, fmt.Errorf("json: %w", err)
			}
			return tnetstring.List(items...), nil
		case '{':
			dict := tnetstring.NewDictionary()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return tnetstring.Value{}, fmt.Errorf("json: %w", err)
				}
				key, _ := keyTok.(string)
				item, err := readValue(dec)
				if err != nil {
					return tnetstring.Value{}, err
				}
				dict.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return tnetstring.Value{}, fmt.Errorf("json: %w", err)
			}
			return tnetstring.Dict(dict), nil
		}
	}
	return tnetstring.Value{}, fmt.Errorf("json: unexpected token %v", tok)
}

func readNumber(n json.Number) (tnetstring.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return tnetstring.Int(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return tnetstring.Value{}, fmt.Errorf("json: %s: %w", s, tnetstring.ErrIntegerOverflow)
		}
		return tnetstring.Value{}, fmt.Errorf("json: %s: %w", s, tnetstring.ErrInvalidInteger)
	}
	f, err := n.Float64()
	if err != nil {
		return tnetstring.Value{}, fmt.Errorf("json: %s: %w", s, tnetstring.ErrInvalidFloat)
	}
	return tnetstring.Float(f), nil
}

// FromValue renders v as compact JSON.
// Strings that are not valid UTF-8 have invalid bytes replaced by U+FFFD.
func (t *jsonTranscoder) FromValue(v tnetstring.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v tnetstring.Value) error {
	switch v.Kind() {
	case tnetstring.KindNull:
		buf.WriteString("null")
	case tnetstring.KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case tnetstring.KindInteger:
		i, _ := v.AsInt()
		buf.WriteString(strconv.FormatInt(i, 10))
	case tnetstring.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("json: unsupported float %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case tnetstring.KindString:
		s, _ := v.AsString()
		return writeString(buf, s)
	case tnetstring.KindList:
		items, _ := v.AsList()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case tnetstring.KindDictionary:
		dict, _ := v.AsDict()
		buf.WriteByte('{')
		first := true
		for k, item := range dict.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("json: %w", tnetstring.ErrEncode)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	out, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	buf.Write(out)
	return nil
}
