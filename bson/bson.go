// Package bson provides a BSON transcoder for tnetstrings.
package bson

import (
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/zoobzio/tnetstring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotDocument is returned by FromValue when the top-level value is not a
// Dictionary. BSON can only represent documents at the top level.
var ErrNotDocument = errors.New("bson: top-level value must be a dictionary")

// bsonTranscoder implements tnetstring.Transcoder for BSON.
type bsonTranscoder struct{}

// New returns a BSON transcoder.
//
// Element order is preserved. ObjectIDs become hex strings, datetimes become
// RFC 3339 strings and Decimal128 values become their string form.
func New() tnetstring.Transcoder {
	return &bsonTranscoder{}
}

// ContentType returns the MIME type for BSON.
func (t *bsonTranscoder) ContentType() string {
	return "application/bson"
}

// ToValue reads a single BSON document.
func (t *bsonTranscoder) ToValue(data []byte) (tnetstring.Value, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return tnetstring.Value{}, fmt.Errorf("bson: %w", err)
	}
	return fromBSON(doc)
}

func fromBSON(v any) (tnetstring.Value, error) {
	switch v := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return tnetstring.Null(), nil
	case bool:
		return tnetstring.Bool(v), nil
	case int32:
		return tnetstring.Int(int64(v)), nil
	case int64:
		return tnetstring.Int(v), nil
	case float64:
		return tnetstring.Float(v), nil
	case string:
		return tnetstring.String(v), nil
	case primitive.Binary:
		return tnetstring.Bytes(v.Data), nil
	case primitive.ObjectID:
		return tnetstring.String(v.Hex()), nil
	case primitive.DateTime:
		return tnetstring.String(v.Time().UTC().Format(time.RFC3339Nano)), nil
	case primitive.Decimal128:
		return tnetstring.String(v.String()), nil
	case primitive.Symbol:
		return tnetstring.String(string(v)), nil
	case primitive.A:
		return fromArray(v)
	case []any:
		return fromArray(v)
	case primitive.D:
		dict := tnetstring.NewDictionary()
		for _, e := range v {
			item, err := fromBSON(e.Value)
			if err != nil {
				return tnetstring.Value{}, fmt.Errorf("%s: %w", e.Key, err)
			}
			dict.Set(e.Key, item)
		}
		return tnetstring.Dict(dict), nil
	case primitive.M:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dict := tnetstring.NewDictionary()
		for _, k := range keys {
			item, err := fromBSON(v[k])
			if err != nil {
				return tnetstring.Value{}, fmt.Errorf("%s: %w", k, err)
			}
			dict.Set(k, item)
		}
		return tnetstring.Dict(dict), nil
	}
	return tnetstring.Value{}, fmt.Errorf("bson: unsupported element type %T", v)
}

func fromArray(a []any) (tnetstring.Value, error) {
	items := make([]tnetstring.Value, 0, len(a))
	for i, e := range a {
		item, err := fromBSON(e)
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return tnetstring.List(items...), nil
}

// FromValue renders a Dictionary as a BSON document.
// Strings that are not valid UTF-8 are written as generic binary.
func (t *bsonTranscoder) FromValue(v tnetstring.Value) ([]byte, error) {
	if v.Kind() != tnetstring.KindDictionary {
		return nil, ErrNotDocument
	}
	doc, err := toBSON(v)
	if err != nil {
		return nil, err
	}
	out, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("bson: %w", err)
	}
	return out, nil
}

func toBSON(v tnetstring.Value) (any, error) {
	switch v.Kind() {
	case tnetstring.KindNull:
		return nil, nil
	case tnetstring.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case tnetstring.KindInteger:
		i, _ := v.AsInt()
		return i, nil
	case tnetstring.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case tnetstring.KindString:
		b, _ := v.AsBytes()
		if !utf8.Valid(b) {
			return primitive.Binary{Subtype: 0x00, Data: b}, nil
		}
		return string(b), nil
	case tnetstring.KindList:
		items, _ := v.AsList()
		arr := make(bson.A, 0, len(items))
		for _, item := range items {
			e, err := toBSON(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, e)
		}
		return arr, nil
	case tnetstring.KindDictionary:
		dict, _ := v.AsDict()
		doc := make(bson.D, 0, dict.Len())
		for k, item := range dict.All() {
			e, err := toBSON(item)
			if err != nil {
				return nil, err
			}
			doc = append(doc, bson.E{Key: k, Value: e})
		}
		return doc, nil
	}
	return nil, fmt.Errorf("bson: %w", tnetstring.ErrEncode)
}
