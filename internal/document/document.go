// Package document holds JSON objects that remember the order of their keys.
//
// Zone and version mappings in dimer.json are order-significant, which rules out
// decoding into map[string]any. Values stored in a Map are limited to the JSON
// data model: nil, bool, string, json.Number (or other Go numbers when built in
// code), []any and *Map.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// Map is an ordered JSON object.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: map[string]any{}}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present, even with a null value.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// GetString returns the value under key when it is a string.
func (m *Map) GetString(key string) (string, bool) {
	value, _ := m.Get(key)
	s, ok := value.(string)
	return s, ok
}

// GetBool returns the value under key when it is a bool.
func (m *Map) GetBool(key string) (bool, bool) {
	value, _ := m.Get(key)
	b, ok := value.(bool)
	return b, ok
}

// GetMap returns the value under key when it is an object.
func (m *Map) GetMap(key string) (*Map, bool) {
	value, _ := m.Get(key)
	child, ok := value.(*Map)
	return child, ok && child != nil
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = map[string]any{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{keys: make([]string, len(m.keys)), values: make(map[string]any, len(m.values))}
	copy(out.keys, m.keys)
	for key, value := range m.values {
		out.values[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case *Map:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}

// Merge deep-merges src over dst and returns the result; neither input is modified.
// Objects merge key by key, arrays merge index by index, anything else in src replaces
// the destination value.
func Merge(dst, src *Map) *Map {
	out := dst.Clone()
	if out == nil {
		out = NewMap()
	}
	for _, key := range src.Keys() {
		existing, _ := out.Get(key)
		incoming, _ := src.Get(key)
		out.Set(key, mergeValue(existing, incoming))
	}
	return out
}

func mergeValue(dst, src any) any {
	switch s := src.(type) {
	case *Map:
		if d, ok := dst.(*Map); ok && d != nil {
			return Merge(d, s)
		}
		return s.Clone()
	case []any:
		d, ok := dst.([]any)
		if !ok {
			return cloneValue(s)
		}
		size := len(d)
		if len(s) > size {
			size = len(s)
		}
		out := make([]any, size)
		for i := range out {
			switch {
			case i < len(s) && i < len(d):
				out[i] = mergeValue(d[i], s[i])
			case i < len(s):
				out[i] = cloneValue(s[i])
			default:
				out[i] = cloneValue(d[i])
			}
		}
		return out
	default:
		return src
	}
}

// FromValue converts decoded Go values (map[string]any from encoding/json or MCP
// arguments) into document values. Plain maps carry no order, so their keys are sorted.
func FromValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := NewMap()
		for _, key := range keys {
			out.Set(key, FromValue(v[key]))
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = FromValue(item)
		}
		return out
	default:
		return value
	}
}

// FromMap is FromValue for a top-level object. A nil input yields an empty Map.
func FromMap(values map[string]any) *Map {
	if values == nil {
		return NewMap()
	}
	return FromValue(values).(*Map)
}

// Decode parses a JSON document whose root must be an object.
func Decode(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return nil, fmt.Errorf("decode json: unexpected %v after top-level value", tok)
	}
	root, ok := value.(*Map)
	if !ok {
		return nil, fmt.Errorf("decode json: document root must be an object, got %s", Kind(value))
	}
	return root, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		out := NewMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			out.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return out, nil
	case '[':
		out := []any{}
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler and keeps key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler and keeps key order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return node, nil
	}
	for _, key := range m.keys {
		value, err := yamlNode(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}
	return node, nil
}

// yamlNode builds the node for a document value. json.Number keeps its literal
// text as an int or float scalar.
func yamlNode(value any) (*yaml.Node, error) {
	switch v := value.(type) {
	case json.Number:
		tag := "!!float"
		if _, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range v {
			child, err := yamlNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case *Map:
		out, err := v.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return out.(*yaml.Node), nil
	}
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return nil, err
	}
	return &node, nil
}

// Marshal encodes v as compact JSON without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent encodes v as two-space indented JSON without HTML escaping.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Kind names the JSON type of a document value.
func Kind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case *Map:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
