package partition

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// PathMap is an insertion-ordered mapping from path key to raw path item JSON.
// Setting an existing key replaces its value and keeps its position.
type PathMap struct {
	keys   []string
	values map[string][]byte
}

// NewPathMap creates an empty PathMap
func NewPathMap() *PathMap {
	return &PathMap{values: make(map[string][]byte)}
}

// Set stores value under key and reports whether an earlier value was replaced
func (m *PathMap) Set(key string, value []byte) bool {
	_, exists := m.values[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return exists
}

// Get returns the value stored under key
func (m *PathMap) Get(key string) ([]byte, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (m *PathMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys
func (m *PathMap) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object, preserving key order and the
// raw bytes of every value.
func (m *PathMap) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, key := range m.keys {
		var err error
		out, err = sjson.SetRawBytes(out, escapeKey(key), m.values[key])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// escapeKey turns a literal object key into an sjson path. A leading ':' would
// otherwise be read as sjson's force-object-key prefix.
func escapeKey(key string) string {
	escaped := gjson.Escape(key)
	if strings.HasPrefix(escaped, ":") {
		escaped = `\` + escaped
	}
	return escaped
}
