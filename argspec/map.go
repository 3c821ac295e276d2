package argspec

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Map is a string keyed map that remembers insertion order.
type Map struct {
	keys []string
	vals map[string]interface{}
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{vals: map[string]interface{}{}} }

// Set sets k to v. A new key is appended; an existing one keeps its place.
func (m *Map) Set(k string, v interface{}) *Map {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
	return m
}

// Get returns the value at k.
func (m *Map) Get(k string) (interface{}, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Map returns the nested Map at k, or nil.
func (m *Map) Map(k string) *Map {
	v, _ := m.vals[k].(*Map)
	return v
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// MarshalYAML implements yaml.Marshaler, keeping key order.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		var val yaml.Node
		if err := val.Encode(m.vals[k]); err != nil {
			return nil, errors.Wrapf(err, "key %s", k)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
	}
	return node, nil
}

// MarshalJSON implements json.Marshaler, keeping key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", k)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
