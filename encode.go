package tnetstring

import (
	"strconv"
)

// Encode returns the tnetstring encoding of v.
func Encode(v Value) ([]byte, error) {
	return Append(nil, v)
}

// Append appends the tnetstring encoding of v to dst and returns the
// extended buffer. On error dst is returned unchanged and nothing has been
// written to it.
func Append(dst []byte, v Value) ([]byte, error) {
	if err := checkEncodable(v); err != nil {
		return dst, err
	}
	return appendValue(dst, v), nil
}

// checkEncodable walks v looking for values without a wire form.
func checkEncodable(v Value) error {
	switch v.kind {
	case KindInvalid:
		return &EncodeError{Type: "Value", Reason: "zero value has no representation"}
	case KindList:
		for _, item := range v.list {
			if err := checkEncodable(item); err != nil {
				return err
			}
		}
	case KindDictionary:
		for _, item := range v.dict.All() {
			if err := checkEncodable(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case KindNull:
		return frame(dst, nil, TagNull)
	case KindBool:
		return frame(dst, strconv.AppendBool(nil, v.b), TagBool)
	case KindInteger:
		return frame(dst, strconv.AppendInt(nil, v.i, 10), TagInteger)
	case KindFloat:
		return frame(dst, strconv.AppendFloat(nil, v.f, 'g', -1, 64), TagFloat)
	case KindString:
		return frame(dst, v.s, TagString)
	case KindList:
		var payload []byte
		for _, item := range v.list {
			payload = appendValue(payload, item)
		}
		return frame(dst, payload, TagList)
	case KindDictionary:
		var payload []byte
		for k, item := range v.dict.All() {
			payload = frame(payload, []byte(k), TagString)
			payload = appendValue(payload, item)
		}
		return frame(dst, payload, TagDictionary)
	}
	return dst
}

// frame appends <len(payload)>:<payload><tag> to dst.
func frame(dst, payload []byte, tag byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, ':')
	dst = append(dst, payload...)
	return append(dst, tag)
}
