package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single column of an uploaded row.
type Field struct {
	Key   string
	Value string
}

// Row is an ordered key/value mapping for one row of an uploaded file.
// Rows are passed through the pipeline untouched and merged at export time.
type Row struct {
	Fields []Field
}

// NewRow builds a row from parallel header and value slices. Missing values
// become empty strings.
func NewRow(headers []string, values []string) Row {
	fields := make([]Field, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		fields[i] = Field{Key: h, Value: v}
	}
	return Row{Fields: fields}
}

// Get returns the value stored under key.
func (r Row) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new field.
func (r *Row) Set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Keys returns the column names in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.Fields)
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	return Row{Fields: fields}
}

// MarshalJSON encodes the row as a JSON object preserving column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the row, keeping key order.
// Non-string values are stored using their JSON text.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	r.Fields = r.Fields[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", key, err)
		}

		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		r.Fields = append(r.Fields, Field{Key: key, Value: s})
	}

	_, err = dec.Token()
	return err
}
