package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject is a JSON object that remembers the order its keys were first seen in.
type orderedObject struct {
	keys   []string
	values map[string]json.RawMessage
}

func newOrderedObject() orderedObject {
	return orderedObject{values: make(map[string]json.RawMessage)}
}

// decodeOrderedObject walks the top level of a JSON object token by token so key order survives.
// A duplicate key keeps its first position and its last value, matching encoding/json.
func decodeOrderedObject(data []byte) (orderedObject, error) {
	obj := newOrderedObject()

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return obj, fmt.Errorf("read object start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return obj, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return obj, fmt.Errorf("read object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return obj, fmt.Errorf("expected string key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return obj, fmt.Errorf("read value for %q: %w", key, err)
		}
		obj.set(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return obj, fmt.Errorf("read object end: %w", err)
	}
	return obj, nil
}

func (o *orderedObject) set(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

func (o orderedObject) get(key string) (json.RawMessage, bool) {
	raw, ok := o.values[key]
	return raw, ok
}

func (o orderedObject) clone() orderedObject {
	out := orderedObject{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]json.RawMessage, len(o.values)),
	}
	for k, v := range o.values {
		out.values[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// encodeOrderedObject writes keys in the given order, asking value for each encoded member.
func encodeOrderedObject(keys []string, value func(key string) ([]byte, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshalUnescaped(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')

		encodedValue, err := value(key)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(o.keys, func(key string) ([]byte, error) {
		raw := o.values[key]
		if len(raw) == 0 {
			return []byte("null"), nil
		}
		return raw, nil
	})
}

// marshalUnescaped is json.Marshal without HTML escaping, so check names such as
// "p(95) < 500 && rate > 0" come out as written.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
