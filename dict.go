package tnetstring

import "iter"

// Dictionary is an insertion-ordered mapping of string keys to values.
//
// Setting an existing key replaces its value in place, so the key keeps the
// position of its first insertion.
type Dictionary struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// Set stores v under k. A nil *Dictionary is read-only: Set panics on it.
// The zero Dictionary is ready to use.
func (d *Dictionary) Set(k string, v Value) {
	if d == nil {
		panic("tnetstring: Set on nil *Dictionary")
	}
	if i, ok := d.index[k]; ok {
		d.values[i] = v
		return
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[k] = len(d.keys)
	d.keys = append(d.keys, k)
	d.values = append(d.values, v)
}

// Get returns the value stored under k.
func (d *Dictionary) Get(k string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[k]
	if !ok {
		return Value{}, false
	}
	return d.values[i], true
}

// Delete removes k, preserving the order of the remaining keys.
func (d *Dictionary) Delete(k string) {
	if d == nil {
		return
	}
	i, ok := d.index[k]
	if !ok {
		return
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.values = append(d.values[:i], d.values[i+1:]...)
	delete(d.index, k)
	for j := i; j < len(d.keys); j++ {
		d.index[d.keys[j]] = j
	}
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// All iterates over key/value pairs in insertion order.
func (d *Dictionary) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for i, k := range d.keys {
			if !yield(k, d.values[i]) {
				return
			}
		}
	}
}

// Equal reports whether d and o hold equal values under the same key set.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d.Len() != o.Len() {
		return false
	}
	for k, v := range d.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// clone returns a shallow copy of d.
func (d *Dictionary) clone() *Dictionary {
	out := &Dictionary{
		keys:   make([]string, len(d.keys)),
		values: make([]Value, len(d.values)),
		index:  make(map[string]int, len(d.index)),
	}
	copy(out.keys, d.keys)
	copy(out.values, d.values)
	for k, i := range d.index {
		out.index[k] = i
	}
	return out
}
