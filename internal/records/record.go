// Package records reads structured records from JSON and JSONL sources.
//
// A Record keeps its fields in source order and holds each value as raw JSON,
// so numbers keep their original spelling and nested structures survive a
// load/encode round trip unchanged.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject indicates a JSON value that is valid but is not an object.
var ErrNotObject = errors.New("JSON value is not an object")

// Field is a single named value inside a Record.
type Field struct {
	Name  string
	Value json.RawMessage
}

// Record is an ordered mapping from field name to raw JSON value.
// The zero value is an empty record. Records are not modified after loading.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a Record from fields in order.
// A repeated name keeps its first position and takes the last value.
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.set(f.Name, f.Value)
	}
	return r
}

func (r *Record) set(name string, value json.RawMessage) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Get returns the raw value of a field and whether it is present.
func (r Record) Get(name string) (json.RawMessage, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Has reports whether the field is present.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns field names in source order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the fields in source order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Equal reports whether two records have the same fields in the same order
// with JSON-equivalent values (insignificant whitespace is ignored).
func (r Record) Equal(other Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if r.fields[i].Name != other.fields[i].Name {
			return false
		}
		if !bytes.Equal(compactRaw(r.fields[i].Value), compactRaw(other.fields[i].Value)) {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	var rec Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		rec.set(key, value)
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after object")
	}

	*r = rec
	return nil
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value := f.Value
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes v without HTML escaping.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// compactRaw returns the compact form of raw, or raw itself if it is not valid JSON.
func compactRaw(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
