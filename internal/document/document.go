// Package document maps generic database rows to ordered, schema-less
// documents and flattens documents back into bind parameters.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is an ordered set of column name to scalar Value entries.
// The zero value is an empty document ready to use.
type Document struct {
	keys   []string
	values map[string]Value
}

func New() *Document {
	return &Document{values: map[string]Value{}}
}

// Set stores v under key, keeping the original position of an existing key.
func (d *Document) Set(key string, v Value) {
	if d.values == nil {
		d.values = map[string]Value{}
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i:i], d.keys[i+1:]...)
			break
		}
	}
}

func (d *Document) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Range calls fn for each entry in order until fn returns false.
func (d *Document) Range(fn func(key string, v Value) bool) {
	for _, k := range d.keys {
		if !fn(k, d.values[k]) {
			return
		}
	}
}

// Clone returns a copy that can be modified independently.
func (d *Document) Clone() *Document {
	out := &Document{
		keys:   append([]string(nil), d.keys...),
		values: make(map[string]Value, len(d.values)),
	}
	for k, v := range d.values {
		out.values[k] = v
	}
	return out
}

// Map returns the entries as plain Go values.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.keys))
	for _, k := range d.keys {
		out[k] = d.values[k].Interface()
	}
	return out
}

func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := d.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object, preserving key order.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a JSON object")
	}

	*d = Document{values: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid document key %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		v, err := fromToken(tok)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		d.Set(key, v)
	}

	_, err = dec.Token()
	return err
}
