// Package msgpack provides a MessagePack transcoder for tnetstrings.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/tnetstring"
)

// msgpackTranscoder implements tnetstring.Transcoder for MessagePack.
type msgpackTranscoder struct{}

// New returns a MessagePack transcoder.
//
// Map key order is preserved. Integer map keys are rendered in base 10.
// Strings that are valid UTF-8 are written as str, all others as bin.
func New() tnetstring.Transcoder {
	return &msgpackTranscoder{}
}

// ContentType returns the MIME type for MessagePack.
func (t *msgpackTranscoder) ContentType() string {
	return "application/msgpack"
}

// ToValue reads a single MessagePack object.
func (t *msgpackTranscoder) ToValue(data []byte) (tnetstring.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := readValue(dec)
	if err != nil {
		return tnetstring.Value{}, err
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return tnetstring.Value{}, errors.New("msgpack: trailing data after object")
	}
	return v, nil
}

func readValue(dec *msgpack.Decoder) (tnetstring.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
	}

	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.Null(), nil

	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.Bool(b), nil

	case code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		if u > math.MaxInt64 {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %d: %w", u, tnetstring.ErrIntegerOverflow)
		}
		return tnetstring.Int(int64(u)), nil

	case msgpcode.IsFixedNum(code),
		code == msgpcode.Uint8, code == msgpcode.Uint16, code == msgpcode.Uint32,
		code == msgpcode.Int8, code == msgpcode.Int16, code == msgpcode.Int32, code == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.Int(i), nil

	case code == msgpcode.Float || code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.Float(f), nil

	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.String(s), nil

	case msgpcode.IsBin(code):
		b, err := dec.DecodeBytes()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		return tnetstring.Bytes(b), nil

	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		items := make([]tnetstring.Value, 0, max(n, 0))
		for range n {
			item, err := readValue(dec)
			if err != nil {
				return tnetstring.Value{}, err
			}
			items = append(items, item)
		}
		return tnetstring.List(items...), nil

	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("msgpack: %w", err)
		}
		dict := tnetstring.NewDictionary()
		for range n {
			key, err := readKey(dec)
			if err != nil {
				return tnetstring.Value{}, err
			}
			item, err := readValue(dec)
			if err != nil {
				return tnetstring.Value{}, err
			}
			dict.Set(key, item)
		}
		return tnetstring.Dict(dict), nil
	}

	return tnetstring.Value{}, fmt.Errorf("msgpack: unsupported code 0x%02x", code)
}

func readKey(dec *msgpack.Decoder) (string, error) {
	v, err := readValue(dec)
	if err != nil {
		return "", err
	}
	switch v.Kind() {
	case tnetstring.KindString:
		s, _ := v.AsString()
		return s, nil
	case tnetstring.KindInteger:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), nil
	}
	return "", fmt.Errorf("msgpack: %w: %s", tnetstring.ErrInvalidDictionaryKey, v.Kind())
}

// FromValue renders v as MessagePack.
func (t *msgpackTranscoder) FromValue(v tnetstring.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := writeValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(enc *msgpack.Encoder, v tnetstring.Value) error {
	var err error
	switch v.Kind() {
	case tnetstring.KindNull:
		err = enc.EncodeNil()
	case tnetstring.KindBool:
		b, _ := v.AsBool()
		err = enc.EncodeBool(b)
	case tnetstring.KindInteger:
		i, _ := v.AsInt()
		err = enc.EncodeInt(i)
	case tnetstring.KindFloat:
		f, _ := v.AsFloat()
		err = enc.EncodeFloat64(f)
	case tnetstring.KindString:
		b, _ := v.AsBytes()
		if utf8.Valid(b) {
			err = enc.EncodeString(string(b))
		} else {
			err = enc.EncodeBytes(b)
		}
	case tnetstring.KindList:
		items, _ := v.AsList()
		if err = enc.EncodeArrayLen(len(items)); err != nil {
			break
		}
		for _, item := range items {
			if err := writeValue(enc, item); err != nil {
				return err
			}
		}
	case tnetstring.KindDictionary:
		dict, _ := v.AsDict()
		if err = enc.EncodeMapLen(dict.Len()); err != nil {
			break
		}
		for k, item := range dict.All() {
			if err := enc.EncodeString(k); err != nil {
				return fmt.Errorf("msgpack: %w", err)
			}
			if err := writeValue(enc, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("msgpack: %w", tnetstring.ErrEncode)
	}
	if err != nil {
		return fmt.Errorf("msgpack: %w", err)
	}
	return nil
}
