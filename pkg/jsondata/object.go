// Package jsondata provides the JSON value model shared by the evaluator and
// its tests: an insertion-ordered object type, an order-preserving decoder,
// and helpers for comparing and naming JSON values.
//
// Values are represented as:
//
//	nil          JSON null
//	bool         JSON boolean
//	string       JSON string
//	json.Number  JSON number (textual form preserved)
//	[]any        JSON array
//	*Object      JSON object (insertion-ordered)
//
// Key order matters in this subsystem: output objects must list keys in the
// order the selection declared them, and star selections must capture the
// remaining input keys deterministically, so plain Go maps are not usable.
package jsondata

import (
	"bytes"
	"encoding/json"
)

// Object is a JSON object that preserves key insertion order. The zero value
// is not usable; construct with NewObject.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set stores value under key, appending the key if it is new. Re-setting an
// existing key keeps its original position, matching JSON object merge
// semantics elsewhere in the evaluator.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Extend copies every entry of other into o, preserving other's order.
func (o *Object) Extend(other *Object) {
	for _, key := range other.keys {
		o.Set(key, other.values[key])
	}
}

// MarshalJSON writes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order and using
// json.Number for all numbers.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return err
	}
	obj, ok := value.(*Object)
	if !ok {
		return &json.UnmarshalTypeError{Value: TypeName(value), Type: nil}
	}
	*o = *obj
	return nil
}
