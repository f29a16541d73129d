package tnetstring

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Struct tags understood by this package.
const (
	tagName        = "tnet"
	tagReceiveHash = "receive.hash"
	tagSendRedact  = "send.redact"
	tagSendMask    = "send.mask"
)

func init() {
	sentinel.Tag(tagName)
	sentinel.Tag(tagReceiveHash)
	sentinel.Tag(tagSendRedact)
	sentinel.Tag(tagSendMask)
}

// structPlan describes how a struct type maps onto a dictionary.
type structPlan struct {
	typeName string
	fields   []fieldPlan
	byKey    map[string]int
}

// fieldPlan describes a single exported struct field.
type fieldPlan struct {
	index     []int        // reflect.Value.FieldByIndex access path
	goName    string       // Go field name for error messages
	key       string       // dictionary key
	omitEmpty bool         // skip zero values when marshaling
	typ       reflect.Type // field type
	hashAlgo  string       // receive.hash tag value, empty if absent
	redact    string       // send.redact tag value
	hasRedact bool         // true if send.redact is present
	maskType  string       // send.mask tag value, empty if absent
}

var (
	plans   = make(map[reflect.Type]*structPlan)
	plansMu sync.RWMutex
)

// planTags lists the struct tags a plan reads.
var planTags = []string{tagName, tagReceiveHash, tagSendRedact, tagSendMask}

// planFor returns the cached plan for struct type rt, building it on first use.
func planFor(rt reflect.Type) (*structPlan, error) {
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached, nil
	}
	plansMu.RUnlock()

	return storePlan(rt, scanStruct(rt))
}

// storePlan builds the plan for rt from spec and caches it, unless another
// caller got there first.
func storePlan(rt reflect.Type, spec sentinel.Metadata) (*structPlan, error) {
	plansMu.Lock()
	defer plansMu.Unlock()

	if cached, ok := plans[rt]; ok {
		return cached, nil
	}

	plan, err := buildStructPlan(rt, spec)
	if err != nil {
		return nil, err
	}
	plans[rt] = plan
	return plan, nil
}

// buildStructPlan resolves the dictionary keys of the fields in spec.
func buildStructPlan(rt reflect.Type, spec sentinel.Metadata) (*structPlan, error) {
	plan := &structPlan{
		typeName: spec.TypeName,
		byKey:    make(map[string]int, len(spec.Fields)),
	}

	for _, field := range spec.Fields {
		sf := rt.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}

		name, _ := fieldTag(field, sf, tagName)
		key, omitEmpty, skip := parseNameTag(name, field.Name)
		if skip {
			continue
		}
		if _, dup := plan.byKey[key]; dup {
			return nil, &ConfigError{Err: ErrInvalidTag, Field: field.Name}
		}

		fp := fieldPlan{
			index:     field.Index,
			goName:    field.Name,
			key:       key,
			omitEmpty: omitEmpty,
			typ:       field.ReflectType,
		}
		if algo, ok := fieldTag(field, sf, tagReceiveHash); ok {
			fp.hashAlgo = algo
		}
		if text, ok := fieldTag(field, sf, tagSendRedact); ok {
			fp.redact = text
			fp.hasRedact = true
		}
		if mt, ok := fieldTag(field, sf, tagSendMask); ok {
			fp.maskType = mt
		}

		plan.byKey[key] = len(plan.fields)
		plan.fields = append(plan.fields, fp)
	}

	return plan, nil
}

// fieldTag reads a tag from sentinel's field metadata. Sentinel drops tags
// with empty values, so presence falls back to the struct tag itself.
func fieldTag(field sentinel.FieldMetadata, sf reflect.StructField, name string) (string, bool) {
	if val, ok := field.Tags[name]; ok {
		return val, true
	}
	return sf.Tag.Lookup(name)
}

// scanStruct returns sentinel metadata for rt. Sentinel caches metadata by
// bare type name, so a cached entry is used only when it describes rt
// exactly; otherwise rt is inspected directly.
func scanStruct(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.Name()); ok && describes(spec, rt) {
		return spec
	}
	return inspectStruct(rt)
}

// describes reports whether spec was extracted from rt: same name, package,
// exported fields, field types and plan tags.
func describes(spec sentinel.Metadata, rt reflect.Type) bool {
	if rt.Name() == "" || spec.TypeName != rt.Name() || spec.PackageName != rt.PkgPath() {
		return false
	}

	exported := 0
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			exported++
		}
	}
	if exported != len(spec.Fields) {
		return false
	}

	for _, field := range spec.Fields {
		if len(field.Index) != 1 || field.Index[0] >= rt.NumField() {
			return false
		}
		sf := rt.Field(field.Index[0])
		if sf.Name != field.Name || sf.Type != field.ReflectType {
			return false
		}
		for _, name := range planTags {
			if sf.Tag.Get(name) != field.Tags[name] {
				return false
			}
		}
	}
	return true
}

// inspectStruct builds metadata for rt from reflection, in the shape
// sentinel produces.
func inspectStruct(rt reflect.Type) sentinel.Metadata {
	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// parseTags extracts the tags this package reads from a struct tag.
func parseTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range planTags {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// parseNameTag splits a `tnet:"key,omitempty"` tag.
func parseNameTag(tag, fieldName string) (key string, omitEmpty, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = fieldName
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
