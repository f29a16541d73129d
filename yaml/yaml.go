// Package yaml provides a YAML transcoder for tnetstrings.
package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zoobzio/tnetstring"
	"gopkg.in/yaml.v3"
)

// maxDepth bounds nesting, including alias expansion.
const maxDepth = 512

// yamlTranscoder implements tnetstring.Transcoder for YAML.
type yamlTranscoder struct{}

// New returns a YAML transcoder.
//
// Mapping order is preserved and aliases are expanded. Timestamps and other
// scalar types without a tnetstring counterpart become strings.
func New() tnetstring.Transcoder {
	return &yamlTranscoder{}
}

// ContentType returns the MIME type for YAML.
func (t *yamlTranscoder) ContentType() string {
	return "application/yaml"
}

// ToValue parses the first YAML document in data. Empty input is Null.
func (t *yamlTranscoder) ToValue(data []byte) (tnetstring.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tnetstring.Value{}, fmt.Errorf("yaml: %w", err)
	}
	if doc.Kind == 0 {
		return tnetstring.Null(), nil
	}
	return readNode(&doc, 0)
}

func readNode(n *yaml.Node, depth int) (tnetstring.Value, error) {
	if depth > maxDepth {
		return tnetstring.Value{}, fmt.Errorf("yaml: %w", tnetstring.ErrTooDeep)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tnetstring.Null(), nil
		}
		return readNode(n.Content[0], depth)

	case yaml.AliasNode:
		return readNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]tnetstring.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := readNode(c, depth+1)
			if err != nil {
				return tnetstring.Value{}, err
			}
			items = append(items, item)
		}
		return tnetstring.List(items...), nil

	case yaml.MappingNode:
		dict := tnetstring.NewDictionary()
		var merged []*tnetstring.Dictionary
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			for k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return tnetstring.Value{}, fmt.Errorf("yaml: line %d: %w", k.Line, tnetstring.ErrInvalidDictionaryKey)
			}
			item, err := readNode(n.Content[i+1], depth+1)
			if err != nil {
				return tnetstring.Value{}, err
			}
			if k.ShortTag() == "!!merge" {
				merged = append(merged, mergeSources(item)...)
				continue
			}
			dict.Set(k.Value, item)
		}
		// Explicit keys win over merged ones; earlier merge sources win over later.
		for _, src := range merged {
			for k, item := range src.All() {
				if _, ok := dict.Get(k); !ok {
					dict.Set(k, item)
				}
			}
		}
		return tnetstring.Dict(dict), nil

	case yaml.ScalarNode:
		return readScalar(n)
	}
	return tnetstring.Value{}, fmt.Errorf("yaml: line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mergeSources returns the mappings named by a << key.
func mergeSources(v tnetstring.Value) []*tnetstring.Dictionary {
	if d, ok := v.AsDict(); ok {
		return []*tnetstring.Dictionary{d}
	}
	items, _ := v.AsList()
	var out []*tnetstring.Dictionary
	for _, item := range items {
		if d, ok := item.AsDict(); ok {
			out = append(out, d)
		}
	}
	return out
}

func readScalar(n *yaml.Node) (tnetstring.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return tnetstring.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tnetstring.Value{}, fmt.Errorf("yaml: %w", err)
		}
		return tnetstring.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var u uint64
			if n.Decode(&u) == nil {
				return tnetstring.Value{}, fmt.Errorf("yaml: line %d: %s: %w", n.Line, n.Value, tnetstring.ErrIntegerOverflow)
			}
			return tnetstring.Value{}, fmt.Errorf("yaml: %w", err)
		}
		return tnetstring.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return tnetstring.Value{}, fmt.Errorf("yaml: %w", err)
		}
		return tnetstring.Float(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(stripSpace(n.Value))
		if err != nil {
			return tnetstring.Value{}, fmt.Errorf("yaml: line %d: binary: %w", n.Line, err)
		}
		return tnetstring.Bytes(b), nil
	}
	return tnetstring.String(n.Value), nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// FromValue renders v as a YAML document. Strings that are not valid UTF-8
// are written as !!binary.
func (t *yamlTranscoder) FromValue(v tnetstring.Value) ([]byte, error) {
	n, err := buildNode(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func buildNode(v tnetstring.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case tnetstring.KindNull:
		return scalar("!!null", "null"), nil
	case tnetstring.KindBool:
		b, _ := v.AsBool()
		return scalar("!!bool", strconv.FormatBool(b)), nil
	case tnetstring.KindInteger:
		i, _ := v.AsInt()
		return scalar("!!int", strconv.FormatInt(i, 10)), nil
	case tnetstring.KindFloat:
		f, _ := v.AsFloat()
		return scalar("!!float", formatFloat(f)), nil
	case tnetstring.KindString:
		b, _ := v.AsBytes()
		if !utf8.Valid(b) {
			return scalar("!!binary", base64.StdEncoding.EncodeToString(b)), nil
		}
		return scalar("!!str", string(b)), nil
	case tnetstring.KindList:
		items, _ := v.AsList()
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			c, err := buildNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, c)
		}
		return seq, nil
	case tnetstring.KindDictionary:
		dict, _ := v.AsDict()
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range dict.All() {
			c, err := buildNode(item)
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, scalar("!!str", k), c)
		}
		return m, nil
	}
	return nil, fmt.Errorf("yaml: %w", tnetstring.ErrEncode)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
