package render

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// templateContext is a JSON document turned into values raymond can walk.
// Objects become plain maps so path lookups keep working; the key order of
// each map is kept on the side, indexed by the map's identity.
type templateContext struct {
	root  interface{}
	order map[uintptr][]string
}

func newTemplateContext(data []byte) *templateContext {
	c := &templateContext{order: make(map[uintptr][]string)}
	c.root = c.value(gjson.ParseBytes(data))
	return c
}

func (c *templateContext) value(r gjson.Result) interface{} {
	switch {
	case r.IsObject():
		m := make(map[string]interface{})
		var keys []string
		r.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, dup := m[k]; !dup {
				keys = append(keys, k)
			}
			m[k] = c.value(value)
			return true
		})
		c.order[reflect.ValueOf(m).Pointer()] = keys
		return m
	case r.IsArray():
		items := make([]interface{}, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, c.value(value))
			return true
		})
		return items
	}

	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return number(r.Raw)
	}
	return nil
}

// number keeps integers exact. Integers too large for int64 stay as their
// JSON text.
func number(raw string) interface{} {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if !strings.ContainsAny(raw, ".eE") {
		return json.Number(raw)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return json.Number(raw)
}

// keys returns the document order of m, falling back to sorted keys for maps
// that did not come from the document
func (c *templateContext) keys(m map[string]interface{}) []string {
	if keys, ok := c.order[reflect.ValueOf(m).Pointer()]; ok {
		return keys
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *templateContext) helpers() map[string]interface{} {
	return map[string]interface{}{
		"each":     c.eachHelper,
		"json":     c.jsonHelper,
		"ifeq":     ifeqHelper,
		"basename": basenameHelper,
		"join":     joinHelper,
		"lower":    lowerHelper,
	}
}

// eachHelper replaces the built-in each so objects are walked in document order
func (c *templateContext) eachHelper(context interface{}, options *raymond.Options) string {
	if !raymond.IsTrue(context) {
		return options.Inverse()
	}

	var sb strings.Builder
	switch v := context.(type) {
	case map[string]interface{}:
		keys := c.keys(v)
		for i, k := range keys {
			sb.WriteString(options.FnCtxData(v[k], iterationFrame(options, i, len(keys), k)))
		}
	case []interface{}:
		for i, item := range v {
			sb.WriteString(options.FnCtxData(item, iterationFrame(options, i, len(v), i)))
		}
	default:
		return options.Inverse()
	}
	return sb.String()
}

func iterationFrame(options *raymond.Options, index, length int, key interface{}) *raymond.DataFrame {
	frame := options.NewDataFrame()
	frame.Set("index", index)
	frame.Set("first", index == 0)
	frame.Set("last", index == length-1)
	frame.Set("key", key)
	return frame
}

// jsonHelper encodes value in document order without HTML escaping
func (c *templateContext) jsonHelper(value interface{}) raymond.SafeString {
	var buf bytes.Buffer
	if err := c.encode(&buf, value); err != nil {
		logger.Warn("json helper could not encode value", zap.Error(err))
		return ""
	}
	return raymond.SafeString(buf.String())
}

func (c *templateContext) encode(buf *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case map[string]interface{}:
		buf.WriteByte('{')
		for i, k := range c.keys(v) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := c.encode(buf, v[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	return encodeScalar(buf, value)
}

func encodeScalar(buf *bytes.Buffer, value interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
