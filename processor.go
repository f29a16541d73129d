package tnetstring

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

// Processor decodes and encodes values of type T at a trust boundary.
// Use Receive for ingress and Send for egress.
//
// Fields tagged `receive.hash:"<algo>"` are hashed as they are received.
// On the way out, fields tagged `send.mask:"<type>"` are masked and fields
// tagged `send.redact:"<text>"` are replaced by text; redaction is applied
// last. Tagged fields must be string, []byte, []string or map[string]string;
// nested structs and pointers to structs are followed.
//
// Transformations are applied to the decoded or marshaled Value tree, so
// Send never mutates the caller's T.
//
// Processors are safe for concurrent use.
type Processor[T any] struct {
	dec *Decoder

	mu      sync.RWMutex
	hashers map[HashAlgo]Hasher
	maskers map[MaskType]Masker

	hashFields   []leafPlan
	maskFields   []leafPlan
	redactFields []leafPlan

	typeName string
}

// leafPlan locates a tagged field inside the Value tree of T.
type leafPlan struct {
	path   []string // dictionary keys from the root to the field
	name   string   // dotted Go field path for error messages
	tagVal string   // algorithm, mask type or redaction text
}

// NewProcessor creates a Processor for type T. Options configure the decoder
// used by Receive.
//
// Builtin hashers and maskers are registered for every HashAlgo and MaskType.
// Tag values are validated here; an unknown algorithm or mask type, or an
// unsupported field type, is a *ConfigError.
func NewProcessor[T any](opts ...Option) (*Processor[T], error) {
	rt := reflect.TypeFor[T]()
	p := &Processor[T]{
		dec:      NewDecoder(opts...),
		hashers:  builtinHashers(),
		maskers:  builtinMaskers(),
		typeName: rt.String(),
	}

	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() == reflect.Struct {
		if spec, err := sentinel.TryScan[T](); err == nil && describes(spec, rt) {
			if _, err := storePlan(rt, spec); err != nil {
				return nil, err
			}
		}
		if err := p.buildPlans(rt, nil, "", map[reflect.Type]bool{}); err != nil {
			return nil, err
		}
	}

	emitProcessorCreated(context.Background(), p.typeName)
	return p, nil
}

// SetHasher registers h for algo, replacing any existing hasher. A nil h
// unregisters the algorithm. Returns the processor for chaining.
func (p *Processor[T]) SetHasher(algo HashAlgo, h Hasher) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h == nil {
		delete(p.hashers, algo)
		return p
	}
	p.hashers[algo] = h
	return p
}

// SetMasker registers m for mt, replacing any existing masker. A nil m
// unregisters the mask type. Returns the processor for chaining.
func (p *Processor[T]) SetMasker(mt MaskType, m Masker) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m == nil {
		delete(p.maskers, mt)
		return p
	}
	p.maskers[mt] = m
	return p
}

// Validate checks that every hash algorithm and mask type named by T's tags
// has an implementation registered.
func (p *Processor[T]) Validate() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.validateLocked()
}

func (p *Processor[T]) validateLocked() error {
	for _, plan := range p.hashFields {
		if _, ok := p.hashers[HashAlgo(plan.tagVal)]; !ok {
			return newConfigError(ErrMissingHasher, plan.tagVal, plan.name)
		}
	}
	for _, plan := range p.maskFields {
		if _, ok := p.maskers[MaskType(plan.tagVal)]; !ok {
			return newConfigError(ErrMissingMasker, plan.tagVal, plan.name)
		}
	}
	return nil
}

// buildPlans walks rt's fields collecting tagged leaves. seen guards against
// self-referencing types.
func (p *Processor[T]) buildPlans(rt reflect.Type, path []string, namePrefix string, seen map[reflect.Type]bool) error {
	if seen[rt] {
		return nil
	}
	seen[rt] = true
	defer delete(seen, rt)

	plan, err := planFor(rt)
	if err != nil {
		return err
	}

	for _, fp := range plan.fields {
		fieldPath := append(append([]string{}, path...), fp.key)
		name := fp.goName
		if namePrefix != "" {
			name = namePrefix + "." + fp.goName
		}

		ft := fp.typ
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft != valueType {
			if err := p.buildPlans(ft, fieldPath, name, seen); err != nil {
				return err
			}
			continue
		}

		if fp.hashAlgo != "" {
			if !IsValidHashAlgo(HashAlgo(fp.hashAlgo)) {
				return newConfigError(ErrInvalidTag, fp.hashAlgo, name)
			}
			if !isTransformable(ft) {
				return &ConfigError{Err: ErrInvalidTag, Field: name}
			}
			p.hashFields = append(p.hashFields, leafPlan{path: fieldPath, name: name, tagVal: fp.hashAlgo})
		}
		if fp.maskType != "" {
			if !IsValidMaskType(MaskType(fp.maskType)) {
				return newConfigError(ErrInvalidTag, fp.maskType, name)
			}
			if !isTransformable(ft) {
				return &ConfigError{Err: ErrInvalidTag, Field: name}
			}
			p.maskFields = append(p.maskFields, leafPlan{path: fieldPath, name: name, tagVal: fp.maskType})
		}
		if fp.hasRedact {
			if !isTransformable(ft) {
				return &ConfigError{Err: ErrInvalidTag, Field: name}
			}
			p.redactFields = append(p.redactFields, leafPlan{path: fieldPath, name: name, tagVal: fp.redact})
		}
	}
	return nil
}

// isTransformable reports whether a tagged field's values are strings.
func isTransformable(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.String:
		return true
	case reflect.Slice:
		elem := rt.Elem().Kind()
		return elem == reflect.Uint8 || elem == reflect.String
	case reflect.Map:
		return rt.Elem().Kind() == reflect.String
	}
	return false
}

// Receive decodes a single unit, hashes fields tagged receive.hash, and
// returns the resulting T.
func (p *Processor[T]) Receive(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	hashed := 0

	var retErr error
	defer func() {
		emitReceiveComplete(ctx, p.typeName, len(data), time.Since(start), hashed, retErr)
	}()

	val, err := p.dec.DecodeOne(data)
	if err != nil {
		retErr = fmt.Errorf("decode: %w", err)
		return nil, retErr
	}

	p.mu.RLock()
	if err := p.validateLocked(); err != nil {
		p.mu.RUnlock()
		retErr = err
		return nil, retErr
	}
	for _, plan := range p.hashFields {
		hasher := p.hashers[HashAlgo(plan.tagVal)]
		var n int
		val, n, err = transformAt(val, plan.path, func(b []byte) ([]byte, error) {
			out, err := hasher.Hash(b)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s: %v", ErrHash, plan.name, err)
			}
			return []byte(out), nil
		})
		if err != nil {
			p.mu.RUnlock()
			retErr = err
			return nil, retErr
		}
		hashed += n
	}
	p.mu.RUnlock()

	var obj T
	if err := FromValue(val, &obj); err != nil {
		retErr = fmt.Errorf("unmarshal: %w", err)
		return nil, retErr
	}
	return &obj, nil
}

// Send masks fields tagged send.mask, redacts fields tagged send.redact and
// encodes obj. A nil obj encodes as Null.
func (p *Processor[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	redacted, masked := 0, 0

	var retErr error
	var retData []byte
	defer func() {
		emitSendComplete(ctx, p.typeName, len(retData), time.Since(start), redacted, masked, retErr)
	}()

	if obj == nil {
		retData, retErr = Encode(Null())
		return retData, retErr
	}

	val, err := ToValue(obj)
	if err != nil {
		retErr = fmt.Errorf("marshal: %w", err)
		return nil, retErr
	}

	p.mu.RLock()
	for _, plan := range p.maskFields {
		masker, ok := p.maskers[MaskType(plan.tagVal)]
		if !ok {
			p.mu.RUnlock()
			retErr = newConfigError(ErrMissingMasker, plan.tagVal, plan.name)
			return nil, retErr
		}
		var n int
		val, n, _ = transformAt(val, plan.path, func(b []byte) ([]byte, error) {
			return masker.Mask(b), nil
		})
		masked += n
	}
	p.mu.RUnlock()

	for _, plan := range p.redactFields {
		text := []byte(plan.tagVal)
		var n int
		val, n, _ = transformAt(val, plan.path, func([]byte) ([]byte, error) {
			return text, nil
		})
		redacted += n
	}

	retData, retErr = Encode(val)
	return retData, retErr
}

// transformAt applies fn to the string leaves found at path and returns the
// rewritten tree with the number of leaves changed. Dictionaries along the
// path are copied, never modified. Missing keys and non-string leaves are
// left alone.
func transformAt(v Value, path []string, fn func([]byte) ([]byte, error)) (Value, int, error) {
	if len(path) == 0 {
		return transformLeaf(v, fn)
	}
	dict, ok := v.AsDict()
	if !ok {
		return v, 0, nil
	}
	child, ok := dict.Get(path[0])
	if !ok {
		return v, 0, nil
	}
	next, n, err := transformAt(child, path[1:], fn)
	if err != nil || n == 0 {
		return v, 0, err
	}
	out := dict.clone()
	out.Set(path[0], next)
	return Dict(out), n, nil
}

func transformLeaf(v Value, fn func([]byte) ([]byte, error)) (Value, int, error) {
	switch v.Kind() {
	case KindString:
		b, _ := v.AsBytes()
		out, err := fn(b)
		if err != nil {
			return v, 0, err
		}
		return Bytes(out), 1, nil

	case KindList:
		items, _ := v.AsList()
		out := make([]Value, len(items))
		count := 0
		for i, item := range items {
			next, n, err := transformLeaf(item, fn)
			if err != nil {
				return v, 0, err
			}
			out[i] = next
			count += n
		}
		return List(out...), count, nil

	case KindDictionary:
		dict, _ := v.AsDict()
		out := NewDictionary()
		count := 0
		for k, item := range dict.All() {
			if item.Kind() != KindString {
				out.Set(k, item)
				continue
			}
			next, n, err := transformLeaf(item, fn)
			if err != nil {
				return v, 0, err
			}
			out.Set(k, next)
			count += n
		}
		return Dict(out), count, nil
	}
	return v, 0, nil
}
