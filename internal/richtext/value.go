package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindOther covers numbers, booleans and null: leaves without text.
	KindOther Kind = iota
	KindText
	KindObject
	KindArray
)

// Field is one key of an object, kept in document order.
type Field struct {
	Key   string
	Value Value
}

// Value is a JSON value as a tagged union. Only the member matching Kind is set.
type Value struct {
	Kind   Kind
	Text   string
	Fields []Field
	Items  []Value
	Raw    json.RawMessage // literal for KindOther
}

// Text builds a text leaf.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Object builds an object value.
func Object(fields ...Field) Value { return Value{Kind: KindObject, Fields: fields} }

// Array builds an array value.
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

// Get returns the value stored under key in an object.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Visitor is called for every text leaf with its JSON path. Returning false stops the walk.
type Visitor func(path, text string) bool

// Walk visits every text leaf depth-first in document order.
// It reports false if the visitor stopped the walk.
func (v Value) Walk(path string, visit Visitor) bool {
	switch v.Kind {
	case KindText:
		return visit(path, v.Text)
	case KindObject:
		for _, f := range v.Fields {
			if !f.Value.Walk(path+"."+f.Key, visit) {
				return false
			}
		}
	case KindArray:
		for i, item := range v.Items {
			if !item.Walk(path+"["+strconv.Itoa(i)+"]", visit) {
				return false
			}
		}
	}
	return true
}

// Map returns a copy of v with fn applied to every text leaf.
func (v Value) Map(fn func(string) string) Value {
	switch v.Kind {
	case KindText:
		return Text(fn(v.Text))
	case KindObject:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Key: f.Key, Value: f.Value.Map(fn)}
		}
		return Object(fields...)
	case KindArray:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Map(fn)
		}
		return Array(items...)
	default:
		return v
	}
}

// MarshalJSON writes the value back with object keys in their original order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return marshalString(v.Text)
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalString(f.Key)
			if err != nil {
				return nil, err
			}
			val, err := f.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			val, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	}
}

// marshalString encodes s without escaping HTML characters, so sanitized markup
// round-trips byte for byte.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes any JSON value, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec, 0)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("richtext: trailing data after JSON value")
	}
	*v = decoded
	return nil
}

// maxDepth bounds nesting so hostile documents cannot exhaust the stack.
const maxDepth = 256

var errTooDeep = fmt.Errorf("richtext: nesting deeper than %d levels", maxDepth)

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var fields []Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("richtext: unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Object(fields...), nil
		case '[':
			var items []Value
			for dec.More() {
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(items...), nil
		default:
			return Value{}, fmt.Errorf("richtext: unexpected delimiter %q", t)
		}
	case string:
		return Text(t), nil
	case json.Number:
		return Value{Kind: KindOther, Raw: json.RawMessage(t.String())}, nil
	case bool:
		if t {
			return Value{Kind: KindOther, Raw: json.RawMessage("true")}, nil
		}
		return Value{Kind: KindOther, Raw: json.RawMessage("false")}, nil
	case nil:
		return Value{Kind: KindOther, Raw: json.RawMessage("null")}, nil
	default:
		return Value{}, fmt.Errorf("richtext: unexpected token %v", tok)
	}
}
